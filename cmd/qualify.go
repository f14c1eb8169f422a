package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/scoutline/leadscout/internal/model"
	"github.com/scoutline/leadscout/internal/qualify"
)

var (
	qualifyInput    string
	qualifyRunID    string
	qualifyEntity   string
	qualifyNiche    string
	qualifyLocation string
	qualifyPlatform string
	qualifyLimit    int
	qualifyJSON     bool
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify",
	Short: "Verify and score candidates from a saved run or JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("qualify"); err != nil {
			return err
		}
		if qualifyRunID == "" && qualifyInput == "" {
			return eris.New("either --run or --input is required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var candidates []model.Candidate
		if qualifyRunID != "" {
			run, err := env.store.GetRun(ctx, qualifyRunID)
			if err != nil {
				return err
			}
			candidates = run.Contacts
		} else {
			candidates, err = readCandidates(qualifyInput)
			if err != nil {
				return err
			}
		}

		limit := qualifyLimit
		if limit <= 0 {
			limit = cfg.Qualify.MaxToQualify
		}
		qcfg := qualify.Config{
			EntityType:     qualifyEntity,
			Niche:          qualifyNiche,
			TargetLocation: qualifyLocation,
			Platform:       preferredPlatform(qualifyPlatform),
			MaxToQualify:   limit,
		}

		res, err := env.qualifier.Qualify(ctx, candidates, qcfg, func(e model.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "%s: %s (%d/%d)\n", e.Tier, e.Status, e.Found, e.Target)
		})
		if err != nil {
			return err
		}

		if qualifyRunID != "" {
			if err := env.store.SaveLeads(ctx, qualifyRunID, res.Qualified); err != nil {
				return err
			}
		}

		if qualifyJSON {
			return json.NewEncoder(os.Stdout).Encode(res)
		}
		renderLeadTable(os.Stdout, res.Qualified)
		return nil
	},
}

// readCandidates loads candidates from a JSON file holding either a
// discovery result document or a bare candidate array.
func readCandidates(path string) ([]model.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read input file")
	}

	var res model.DiscoveryResult
	if err := json.Unmarshal(data, &res); err == nil && len(res.Contacts) > 0 {
		return res.Contacts, nil
	}

	var candidates []model.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, eris.Wrap(err, "parse input file")
	}
	return candidates, nil
}

func init() {
	qualifyCmd.Flags().StringVar(&qualifyInput, "input", "", "JSON file with candidates or a discovery result")
	qualifyCmd.Flags().StringVar(&qualifyRunID, "run", "", "saved run ID to qualify")
	qualifyCmd.Flags().StringVar(&qualifyEntity, "entity-type", "", "target entity type, e.g. dancer")
	qualifyCmd.Flags().StringVar(&qualifyNiche, "niche", "", "target niche, e.g. amapiano")
	qualifyCmd.Flags().StringVar(&qualifyLocation, "location", "", "target location")
	qualifyCmd.Flags().StringVar(&qualifyPlatform, "platform", "", "preferred verification platform")
	qualifyCmd.Flags().IntVar(&qualifyLimit, "limit", 0, "max candidates to verify (default from config)")
	qualifyCmd.Flags().BoolVar(&qualifyJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(qualifyCmd)
}
