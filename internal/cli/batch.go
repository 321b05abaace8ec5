package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"

	"pwd-analyzer/internal/analyzer"
	"pwd-analyzer/internal/batch"
	"pwd-analyzer/internal/crack"
	"pwd-analyzer/internal/pii"
	"pwd-analyzer/internal/records"
	"pwd-analyzer/internal/strength"
	"pwd-analyzer/internal/util"
)

var (
	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Analyze a CSV file of passwords in bulk",
		Long: "Analyze every password in a CSV file. When a records file is supplied its rows are " +
			"matched one-to-one with the password rows for personal-information detection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommand()
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "Passwords CSV input file path (required)")
	batchCmd.MarkFlagRequired("in-file")
	batchCmd.Flags().StringVarP(&recordsFile, "records", "r", "", "Personal records CSV file, rows aligned with the passwords file")
	batchCmd.Flags().StringVarP(&outFile, "out-file", "o", "", "Write the full results as JSON to this path")
	batchCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite any existing files while writing the results.")

	rootCmd.AddCommand(batchCmd)
}

func batchCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	passwords, err := readPasswords(inputFile)
	if err != nil {
		return err
	}
	if len(passwords) == 0 {
		log.Warn().Msgf("no passwords found in %s", inputFile)
		return nil
	}

	var recs []records.Record
	if recordsFile != "" {
		if recs, err = records.LoadCSV(recordsFile); err != nil {
			return err
		}
		if len(recs) != len(passwords) {
			log.Warn().Msgf("records file has %d rows for %d passwords; extra passwords are matched without a record", len(recs), len(passwords))
		}
	}

	util.CheckRam(uint64(len(passwords)))

	scorer := strength.NewScorer(strength.NewLinearModel(), nil)
	a, err := analyzer.New(scorer, crack.NewEstimator(nil), pii.NewMatcher(nil), nil)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.RunBatch(context.Background(), passwords, recs)
	if err != nil {
		return err
	}

	for bucket, count := range result.Buckets {
		log.Info().Msgf("%s: %d passwords", bucket, count)
	}

	// The head of the weakest-first ordering is the actionable part.
	worst := result.WeakestFirst
	if len(worst) > 10 {
		worst = worst[:10]
	}
	for rank, idx := range worst {
		item := result.Items[idx]
		if item.Err != nil {
			log.Warn().Msgf("#%d row %d: %s", rank+1, idx+1, item.Err)
			continue
		}
		log.Info().Msgf("#%d row %d: %.2f (%s), %d findings", rank+1, idx+1, item.Score, item.Bucket, len(item.Findings))
	}

	if outFile != "" {
		return writeResults(result.Items)
	}
	return nil
}

// readPasswords loads the password column of a CSV file. A header row naming
// a password column selects it; otherwise every first field is a password.
func readPasswords(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := 0
	start := 0
	for i, label := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(label), "password") {
			col = i
			start = 1
			break
		}
	}

	var passwords []string
	for _, row := range rows[start:] {
		if col < len(row) && row[col] != "" {
			passwords = append(passwords, row[col])
		}
	}
	return passwords, nil
}

func writeResults(items []batch.Item) error {
	abs, err := filepath.Abs(outFile)
	if err != nil {
		log.Fatal().Err(err).Msgf("could not get absolute path of file")
	}

	if !overwrite {
		_, err = os.Stat(abs)
		if !os.IsNotExist(err) {
			log.Fatal().Msgf("file %s exists and overwrite flag is not set", outFile)
		}
	}

	out, err := os.Create(abs)
	if err != nil {
		return err
	}

	defer func(out *os.File) {
		if err = out.Close(); err != nil {
			log.Error().Err(err).Msg("error closing results file")
		}
	}(out)

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err = encoder.Encode(items); err != nil {
		return err
	}

	log.Info().Msgf("results written to %s", abs)
	return nil
}
