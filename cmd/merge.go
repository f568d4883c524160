package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xhad/rasanlu/internal/models"
	"github.com/xhad/rasanlu/pkg/codec"
	"github.com/xhad/rasanlu/pkg/processor"
)

type mergeOptions struct {
	output      string
	dedupe      bool
	cleanLabels bool
	lenient     bool
}

func newMergeCmd() *cobra.Command {
	var opts mergeOptions

	cmd := &cobra.Command{
		Use:   "merge -o OUTPUT FILE...",
		Short: "Merge several training data files into one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd.ErrOrStderr(), opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "File to write the merged data to")
	cmd.Flags().BoolVar(&opts.dedupe, "dedupe", false, "Drop records identical to an earlier one")
	cmd.Flags().BoolVar(&opts.cleanLabels, "clean-labels", false, "Collapse whitespace in intents, regex names and synonym values")
	cmd.Flags().BoolVar(&opts.lenient, "lenient", false, "Treat missing or corrupt inputs as empty instead of failing")
	cmd.MarkFlagRequired("output")
	return cmd
}

func getProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func runMerge(w io.Writer, opts mergeOptions, inputs []string) error {
	readBar := getProgressBar(w, len(inputs), " Reading training data")
	docs := make([]models.Document, 0, len(inputs))
	for _, path := range inputs {
		if opts.lenient {
			docs = append(docs, codec.Load(path))
			readBar.Add(1)
			continue
		}
		doc, err := codec.Read(path)
		if err != nil {
			readBar.Exit()
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, doc)
		readBar.Add(1)
	}
	readBar.Finish()

	mergeBar := getProgressBar(w, len(docs), " Merging")
	p := processor.NewWithConfig(processor.ProcessorConfig{
		Dedupe:      opts.dedupe,
		CleanLabels: opts.cleanLabels,
		OnProgress: func(int) {
			mergeBar.Add(1)
		},
	})

	merged, stats, err := p.Process(docs)
	if err != nil {
		mergeBar.Exit()
		return fmt.Errorf("failed to merge: %w", err)
	}
	mergeBar.Finish()

	if err := codec.Write(opts.output, merged); err != nil {
		return err
	}

	fmt.Fprintln(w, color.GreenString("\n✓ Merged %d files into %s (%d examples, %d regex features, %d synonyms, %d duplicates dropped)",
		stats.Inputs, opts.output,
		len(merged.Examples), len(merged.RegexFeatures), len(merged.Synonyms), stats.Dropped))
	return nil
}
