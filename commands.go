package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"realtor_ads_automation/config"
	"realtor_ads_automation/generator"
	"realtor_ads_automation/googleads"
	"realtor_ads_automation/logging"
	"realtor_ads_automation/server"
)

type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "realtor-ads",
		Short:         "Generate Google search ads for realtors and manage their Ads accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML or JSON config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logs")

	root.AddCommand(
		a.adCmd(),
		a.evCmd(),
		a.accountCmd(),
		a.campaignCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Debug = true
	}
	logger, err := logging.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) adCmd() *cobra.Command {
	var info []string
	cmd := &cobra.Command{
		Use:   "ad",
		Short: "Generate a headline and description from realtor information",
		Example: `  realtor-ads ad --info "Name: Mike Jones" --info "Location: California"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, err := a.buildAgent()
			if err != nil {
				return err
			}
			lines := generator.Information(info)
			ad, err := agent.GenerateAd(cmd.Context(), &lines)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Headline: %s\nDescription: %s\n", ad.Headline, ad.Description)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&info, "info", nil, "one line of realtor information (repeatable)")
	_ = cmd.MarkFlagRequired("info")
	return cmd
}

func (a *app) evCmd() *cobra.Command {
	var realtorEmail, emailsPath string
	cmd := &cobra.Command{
		Use:   "ev",
		Short: "Score buyer interest (0-100) from an email thread",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(emailsPath)
			if err != nil {
				return fmt.Errorf("read emails: %w", err)
			}
			var emails []generator.Email
			if err := json.Unmarshal(raw, &emails); err != nil {
				return fmt.Errorf("decode emails %s: %w", emailsPath, err)
			}
			scorer, err := a.buildScorer()
			if err != nil {
				return err
			}
			ev, err := scorer.ScoreEmails(cmd.Context(), realtorEmail, emails)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ev)
			return nil
		},
	}
	cmd.Flags().StringVar(&realtorEmail, "realtor-email", "", "address the realtor sends from")
	cmd.Flags().StringVar(&emailsPath, "emails", "", "JSON file with the thread, oldest first")
	_ = cmd.MarkFlagRequired("realtor-email")
	_ = cmd.MarkFlagRequired("emails")
	return cmd
}

func (a *app) accountCmd() *cobra.Command {
	account := &cobra.Command{Use: "account", Short: "Google Ads accounts"}
	account.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create a client account under the manager account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ads, err := a.buildAds()
			if err != nil {
				return err
			}
			id, err := ads.CreateAccount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})
	return account
}

func (a *app) campaignCmd() *cobra.Command {
	var customerID, name string
	campaign := &cobra.Command{Use: "campaign", Short: "Google Ads campaigns"}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a paused search campaign; a new account is made when --customer-id is empty",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ads, err := a.buildAds()
			if err != nil {
				return err
			}
			if customerID == "" {
				if customerID, err = ads.CreateAccount(cmd.Context()); err != nil {
					return err
				}
				a.logger.Info("created account", zap.String("customer_id", customerID))
			}
			resource, err := ads.CreateCampaign(cmd.Context(), customerID, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resource)
			return nil
		},
	}
	create.Flags().StringVar(&customerID, "customer-id", "", "client customer id")
	create.Flags().StringVar(&name, "name", "", "campaign name (default \"Campaign\")")
	campaign.AddCommand(create)
	return campaign
}

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			agent, err := a.buildAgent()
			if err != nil {
				return err
			}
			scorer, err := a.buildScorer()
			if err != nil {
				return err
			}
			var accounts server.AccountService
			if a.cfg.GoogleAds.YAMLLocation != "" {
				ads, err := a.buildAds()
				if err != nil {
					return err
				}
				accounts = ads
			} else {
				a.logger.Warn("GOOGLE_ADS_YAML_LOCATION not set; account endpoints disabled")
			}
			srv, err := server.New(agent, scorer, accounts, a.logger)
			if err != nil {
				return err
			}

			listen := a.cfg.Server.Addr
			if addr != "" {
				listen = addr
			}
			e := srv.Routes()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = e.Shutdown(shutdownCtx)
			}()

			a.logger.Info("starting web server", zap.String("addr", listen))
			if err := e.Start(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *app) buildLLM(model string) (generator.LLMClient, error) {
	llm := a.cfg.LLM
	switch strings.ToLower(llm.Provider) {
	case config.ProviderTogether, config.ProviderOpenAI:
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: llm.Provider,
			Model:    model,
			APIKey:   llm.APIKey,
			BaseURL:  llm.BaseURL,
			Timeout:  llm.Timeout,
		}, a.logger)
	case config.ProviderMock:
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", llm.Provider)
	}
}

func (a *app) buildAgent() (*generator.Agent, error) {
	llm, err := a.buildLLM(a.cfg.LLM.Model)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm,
		generator.WithModel(a.cfg.LLM.Model),
		generator.WithSampling(sampling(a.cfg.LLM.Sampling)),
		generator.WithLogger(a.logger),
	)
}

func (a *app) buildScorer() (*generator.Scorer, error) {
	llm, err := a.buildLLM(a.cfg.EV.Model)
	if err != nil {
		return nil, err
	}
	scorer, err := generator.NewScorer(llm,
		generator.WithModel(a.cfg.EV.Model),
		generator.WithSampling(sampling(a.cfg.EV.Sampling)),
		generator.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	scorer.MaxTokens = a.cfg.EV.MaxTokens
	if a.cfg.EV.InternalDomain != "" {
		scorer.InternalDomain = a.cfg.EV.InternalDomain
	}
	return scorer, nil
}

func (a *app) buildAds() (*googleads.Client, error) {
	ga := a.cfg.GoogleAds
	if ga.YAMLLocation == "" {
		return nil, errors.New("GOOGLE_ADS_YAML_LOCATION is not set")
	}
	creds, err := googleads.LoadCredentials(ga.YAMLLocation)
	if err != nil {
		return nil, err
	}
	if ga.LoginCustomerID != "" {
		creds.LoginCustomerID = googleads.NormalizeCustomerID(ga.LoginCustomerID)
	}
	return googleads.New(creds, googleads.Options{
		BaseURL:    ga.BaseURL,
		APIVersion: ga.APIVersion,
		Logger:     a.logger,
	})
}

func sampling(s config.SamplingConfig) generator.SamplingParams {
	return generator.SamplingParams{
		Temperature:       s.Temperature,
		TopP:              s.TopP,
		TopK:              s.TopK,
		RepetitionPenalty: s.RepetitionPenalty,
		Stop:              s.Stop,
	}
}
