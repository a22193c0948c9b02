// Command evalcli exercises the pipeline from the terminal: ad-hoc questions
// and batch evaluation against the golden example set.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sahtein/internal/app"
	"sahtein/internal/domain"
	"sahtein/internal/infra/config"
	"sahtein/internal/infra/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evalcli",
		Short:         "Interroge et évalue le pipeline Sahtein",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAskCmd(), newEvalCmd())
	return root
}

func buildApp(ctx context.Context) (*app.App, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger.New())
}

func newAskCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Pose une question au pipeline et affiche la réponse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}

			resp := a.Pipeline.Process(cmd.Context(), args[0], debug)

			fmt.Fprintf(cmd.OutOrStdout(), "scenario: %d (%s)\n", resp.ScenarioID, resp.ScenarioName)
			if resp.PrimaryURL != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "url: %s\n", resp.PrimaryURL)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.HTML)
			if debug {
				for k, v := range resp.Debug {
					fmt.Fprintf(cmd.OutOrStdout(), "debug %s: %v\n", k, v)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "affiche les informations de debug du pipeline")
	return cmd
}

func newEvalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Rejoue les exemples dorés et mesure intent et lien",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}

			examples, err := a.Store.GoldenExamples()
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(examples) {
				examples = examples[:limit]
			}
			if len(examples) == 0 {
				return fmt.Errorf("aucun exemple doré dans %s", a.Config.GoldenExamplesPath)
			}

			report := runEval(cmd.Context(), a, examples)
			report.print(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "nombre maximum d'exemples à rejouer (0 = tous)")
	return cmd
}

type evalReport struct {
	total       int
	intentHits  int
	urlHits     int
	urlExpected int
	failures    []string
}

func runEval(ctx context.Context, a *app.App, examples []domain.GoldenExample) evalReport {
	report := evalReport{total: len(examples)}

	for _, ex := range examples {
		resp := a.Pipeline.Process(ctx, ex.UserQuery, true)

		gotIntent, _ := resp.Debug["intent"].(string)
		if ex.ExpectedIntent == "" || gotIntent == ex.ExpectedIntent {
			report.intentHits++
		} else {
			report.failures = append(report.failures,
				fmt.Sprintf("%s: intent %q attendu, obtenu %q", ex.ID, ex.ExpectedIntent, gotIntent))
		}

		if ex.ExpectedURL != "" {
			report.urlExpected++
			if resp.PrimaryURL == ex.ExpectedURL {
				report.urlHits++
			} else {
				report.failures = append(report.failures,
					fmt.Sprintf("%s: url %q attendue, obtenue %q", ex.ID, ex.ExpectedURL, resp.PrimaryURL))
			}
		}
	}
	return report
}

func (r evalReport) print(w io.Writer) {
	fmt.Fprintf(w, "exemples : %d\n", r.total)
	fmt.Fprintf(w, "intents corrects : %d/%d\n", r.intentHits, r.total)
	if r.urlExpected > 0 {
		fmt.Fprintf(w, "liens corrects : %d/%d\n", r.urlHits, r.urlExpected)
	}
	for _, f := range r.failures {
		fmt.Fprintf(w, "  échec %s\n", f)
	}
}
