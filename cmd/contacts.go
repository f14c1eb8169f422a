package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/scoutline/leadscout/internal/query"
	"github.com/scoutline/leadscout/internal/store"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Manage the local contact book",
}

var (
	contactName      string
	contactEmail     string
	contactCompany   string
	contactTitle     string
	contactIndustry  string
	contactMarket    string
	contactInstagram string
	contactTikTok    string
	contactTwitter   string
	contactLinkedIn  string
	contactFollowers string
)

var contactsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact to the local book",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("discover"); err != nil {
			return err
		}
		if contactName == "" || contactMarket == "" {
			return eris.New("--name and --market are required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		return env.store.AddContact(ctx, store.Contact{
			ID:          uuid.NewString(),
			Name:        contactName,
			Email:       contactEmail,
			Company:     contactCompany,
			Title:       contactTitle,
			Industry:    contactIndustry,
			CountryCode: query.MarketCode(contactMarket),
			Instagram:   contactInstagram,
			TikTok:      contactTikTok,
			Twitter:     contactTwitter,
			LinkedIn:    contactLinkedIn,
			Followers:   contactFollowers,
			AddedAt:     time.Now().UTC(),
		})
	},
}

var contactsListMarket string

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts for a market",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("discover"); err != nil {
			return err
		}
		if contactsListMarket == "" {
			return eris.New("--market is required")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		contacts, err := env.store.ContactsByMarket(ctx, query.MarketCode(contactsListMarket))
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Email", "Company", "Title", "Industry", "Added"})
		for _, c := range contacts {
			t.AppendRow(table.Row{c.Name, c.Email, c.Company, c.Title, c.Industry, c.AddedAt.Format("2006-01-02")})
		}
		t.Render()
		return nil
	},
}

func init() {
	contactsAddCmd.Flags().StringVar(&contactName, "name", "", "contact name")
	contactsAddCmd.Flags().StringVar(&contactEmail, "email", "", "email address")
	contactsAddCmd.Flags().StringVar(&contactCompany, "company", "", "company name")
	contactsAddCmd.Flags().StringVar(&contactTitle, "title", "", "role or title")
	contactsAddCmd.Flags().StringVar(&contactIndustry, "industry", "", "industry keywords")
	contactsAddCmd.Flags().StringVar(&contactMarket, "market", "", "market (country name or code)")
	contactsAddCmd.Flags().StringVar(&contactInstagram, "instagram", "", "instagram handle")
	contactsAddCmd.Flags().StringVar(&contactTikTok, "tiktok", "", "tiktok handle")
	contactsAddCmd.Flags().StringVar(&contactTwitter, "twitter", "", "twitter handle")
	contactsAddCmd.Flags().StringVar(&contactLinkedIn, "linkedin", "", "linkedin handle")
	contactsAddCmd.Flags().StringVar(&contactFollowers, "followers", "", "follower count display string")

	contactsListCmd.Flags().StringVar(&contactsListMarket, "market", "", "market (country name or code)")

	contactsCmd.AddCommand(contactsAddCmd)
	contactsCmd.AddCommand(contactsListCmd)
	rootCmd.AddCommand(contactsCmd)
}
