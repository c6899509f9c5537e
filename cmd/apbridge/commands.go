package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bluesky-social/apbridge/activitypub/lookup"
	"github.com/bluesky-social/apbridge/activitypub/routes"

	cli "github.com/urfave/cli/v2"
)

func printJSON(cctx *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cctx.App.Writer, string(b))
	return nil
}

var renderCmd = &cli.Command{
	Name:      "render",
	Usage:     "print the ActivityPub activity for a local post",
	ArgsUsage: "<post-id>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "object",
			Usage: "print only the object, not the activity envelope",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		logger := configLogger(cctx, os.Stderr)
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected a single post id")
		}
		app, err := loadApp(cctx, logger)
		if err != nil {
			return err
		}
		ent, err := app.Store.LoadEntity(ctx, routes.TypePost, cctx.Args().First())
		if err != nil {
			return err
		}
		obj, err := app.Render(ctx, ent, !cctx.Bool("object"))
		if err != nil {
			return err
		}
		return printJSON(cctx, obj)
	},
}

var resolveCmd = &cli.Command{
	Name:      "resolve",
	Usage:     "resolve a URL to the local entity it identifies",
	ArgsUsage: "<url>",
	Action: func(cctx *cli.Context) error {
		ctx := cctx.Context
		logger := configLogger(cctx, os.Stderr)
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected a single URL")
		}
		app, err := loadApp(cctx, logger)
		if err != nil {
			return err
		}
		raw := cctx.Args().First()
		res := lookup.NewResolver(app.Site, app.Store, logger).Lookup(ctx, raw)
		if err := printJSON(cctx, resolveOutput(raw, res)); err != nil {
			return err
		}
		if res.Status != lookup.StatusFound {
			return fmt.Errorf("could not resolve URL: %s", res.Status)
		}
		return nil
	},
}

var checkConfigCmd = &cli.Command{
	Name:  "check-config",
	Usage: "validate the content type mapping and print its dependencies",
	Action: func(cctx *cli.Context) error {
		configLogger(cctx, os.Stderr)
		mappings, err := loadMappings(cctx.String("mapping-config"))
		if err != nil {
			return err
		}
		if err := validateMappings(mappings); err != nil {
			return err
		}
		type entry struct {
			EntityTypeID string `json:"target_entity_type_id"`
			Bundle       string `json:"target_bundle"`
			Object       string `json:"object"`
			Activity     string `json:"activity"`
			Dependencies any    `json:"dependencies"`
		}
		out := make([]entry, 0, len(mappings))
		for _, cfg := range mappings {
			out = append(out, entry{
				EntityTypeID: cfg.TargetEntityTypeID,
				Bundle:       cfg.TargetBundle,
				Object:       cfg.Object.String(),
				Activity:     cfg.Activity.String(),
				Dependencies: cfg.Dependencies(),
			})
		}
		return printJSON(cctx, out)
	},
}

var seedCmd = &cli.Command{
	Name:  "seed",
	Usage: "insert fake users, posts and followers into the database",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "users",
			Usage: "number of users to create",
			Value: 5,
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "number of posts to create",
			Value:   25,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed; the same seed produces the same content",
			Value: 1,
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := configLogger(cctx, os.Stderr)
		app, err := loadApp(cctx, logger)
		if err != nil {
			return err
		}
		stats, err := app.Store.Seed(cctx.Context, cctx.Int("users"), cctx.Int("count"), cctx.Int64("seed"))
		if err != nil {
			return err
		}
		logger.Info("seeded database", "users", stats.Users, "posts", stats.Posts, "follows", stats.Follows)
		return nil
	},
}
