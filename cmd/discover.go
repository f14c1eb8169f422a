package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/store"
)

var (
	discoverTypes    []string
	discoverMarkets  []string
	discoverGenre    string
	discoverQuery    string
	discoverCount    int
	discoverDepth    string
	discoverPlatform string
	discoverLocation string
	discoverJSON     bool
	discoverSave     bool
	discoverQualify  bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the tiered discovery cascade for a brief",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("discover"); err != nil {
			return err
		}
		if len(discoverMarkets) == 0 {
			return eris.New("at least one --market is required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		brief := model.Brief{
			ContactTypes:      discoverTypes,
			Markets:           discoverMarkets,
			Genre:             discoverGenre,
			FreeformQuery:     discoverQuery,
			TargetCount:       discoverCount,
			SearchDepth:       model.SearchDepth(discoverDepth),
			PreferredPlatform: discoverPlatform,
			SpecificLocation:  discoverLocation,
		}
		if brief.TargetCount <= 0 {
			brief.TargetCount = cfg.Discovery.DefaultTargetCount
		}
		if brief.SearchDepth == "" {
			brief.SearchDepth = model.SearchDepth(cfg.Discovery.DefaultDepth)
		}

		res, err := env.discover.Run(ctx, brief, func(e model.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "%s: %s (%d/%d)\n", e.Tier, e.Status, e.Found, e.Target)
		})
		if err != nil {
			return err
		}

		runID := ""
		if discoverSave {
			runID = uuid.NewString()
			if err := env.store.SaveRun(ctx, &store.Run{
				ID:        runID,
				Brief:     brief,
				Contacts:  res.Contacts,
				CreatedAt: time.Now().UTC(),
			}); err != nil {
				return err
			}
		}

		if discoverQualify {
			qres, err := env.qualifier.Qualify(ctx, res.Contacts, qualifyConfigForBrief(brief), nil)
			if err != nil {
				return err
			}
			if runID != "" {
				if err := env.store.SaveLeads(ctx, runID, qres.Qualified); err != nil {
					return err
				}
			}
			if discoverJSON {
				return json.NewEncoder(os.Stdout).Encode(qres)
			}
			renderLeadTable(os.Stdout, qres.Qualified)
		} else {
			if discoverJSON {
				if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
					return err
				}
			} else {
				renderContactTable(os.Stdout, res.Contacts)
			}
		}

		if runID != "" {
			fmt.Fprintf(os.Stderr, "saved run %s\n", runID)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringSliceVar(&discoverTypes, "type", nil, "contact types to look for (repeatable)")
	discoverCmd.Flags().StringSliceVar(&discoverMarkets, "market", nil, "target markets (country names or codes)")
	discoverCmd.Flags().StringVar(&discoverGenre, "genre", "", "genre or niche keyword")
	discoverCmd.Flags().StringVar(&discoverQuery, "query", "", "freeform query text")
	discoverCmd.Flags().IntVar(&discoverCount, "count", 0, "target contact count (default from config)")
	discoverCmd.Flags().StringVar(&discoverDepth, "depth", "", "search depth: quick, deep or full (default from config)")
	discoverCmd.Flags().StringVar(&discoverPlatform, "platform", "", "preferred social platform")
	discoverCmd.Flags().StringVar(&discoverLocation, "location", "", "specific location within the markets")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "print JSON instead of a table")
	discoverCmd.Flags().BoolVar(&discoverSave, "save", false, "persist the run for later qualification")
	discoverCmd.Flags().BoolVar(&discoverQualify, "qualify", false, "qualify the discovered contacts immediately")
	rootCmd.AddCommand(discoverCmd)
}
