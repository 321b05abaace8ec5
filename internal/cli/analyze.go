package cli

import (
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"

	"pwd-analyzer/internal/analyzer"
	"pwd-analyzer/internal/crack"
	"pwd-analyzer/internal/pii"
	"pwd-analyzer/internal/records"
	"pwd-analyzer/internal/strength"
	"pwd-analyzer/internal/util"
)

var (
	analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single password",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				// Dummy string
				return analyzeCommand("")
			} else {
				return analyzeCommand(args[0])
			}
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	analyzeCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode.")
	analyzeCmd.Flags().StringVarP(&recordsFile, "records", "r", "", "Personal records CSV file to match the password against")

	rootCmd.AddCommand(analyzeCmd)
}

func analyzeCommand(password string) (err error) {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	var recs []records.Record
	if recordsFile != "" {
		if recs, err = records.LoadCSV(recordsFile); err != nil {
			return
		}
		log.Debug().Msgf("loaded %d personal records from %s", len(recs), recordsFile)
	}

	scorer := strength.NewScorer(strength.NewLinearModel(), nil)
	a, err := analyzer.New(scorer, crack.NewEstimator(nil), pii.NewMatcher(nil), recs)
	if err != nil {
		return
	}
	defer a.Close()

	if interactive {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(input string) error {
				if len(input) == 0 {
					return errors.New("please enter a valid password")
				}
				return nil
			},
		}

		log.Info().Msgf("Running interactive session. ^C to exit")
		if err = runInteractiveSession(prompt, a); err != nil {
			if err.Error() == "^C" || err.Error() == "^D" {
				log.Info().Msgf("Goodbye")
			} else {
				log.Error().Err(err).Msgf("Error during interactive session")
			}
			// No return to avoid the default cobra error message
			return nil
		}
	} else {
		return reportAnalysis(a, password)
	}

	return
}

func runInteractiveSession(prompt promptui.Prompt, a *analyzer.Analyzer) error {
	for {
		result, err := prompt.Run()
		if err != nil {
			return err
		}

		if err = reportAnalysis(a, result); err != nil {
			log.Error().Err(err).Msg("Error during analysis")
		}
	}
}

func reportAnalysis(a *analyzer.Analyzer, password string) error {
	analysis, err := a.Analyze(context.Background(), password, nil)
	if err != nil {
		return err
	}

	log.Info().Msgf("Strength: %.2f (%s)", analysis.Score, analysis.Bucket)
	log.Info().Msgf("Entropy: %.1f bits", analysis.EntropyBits)
	for model, display := range analysis.Display {
		log.Info().Msgf("Crack time (%s): %s", model, display)
	}

	if len(analysis.Findings) == 0 {
		log.Info().Msgf("No personal information detected")
	}
	for _, f := range analysis.Findings {
		log.Warn().Msgf("Personal information detected (%s): %s = %s", f.Method, f.Label, f.Value)
	}

	return nil
}
