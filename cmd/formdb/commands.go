package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/formdb"
	"github.com/hupe1980/formdb/codec"
	"github.com/hupe1980/formdb/storage/tsv"
	"github.com/spf13/cobra"
)

const defaultCount = 10

// app holds the global flags and the resolved configuration.
type app struct {
	configPath string
	storeURL   string
	verbose    bool

	cfg Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "formdb",
		Short:         "Query and edit a word-form store",
		Long:          `formdb manages (word, form) -> description records and finds words and forms by weighted edit distance.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&a.storeURL, "store", "s", "", "storage URL (path, file://, sqlite://, s3://, minio://)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log store operations")

	rootCmd.AddCommand(
		a.wordsCmd(),
		a.formsCmd(),
		a.getCmd(),
		a.setCmd(),
		a.deleteCmd(),
		a.listCmd(),
	)
	return rootCmd
}

// configure loads the config file and lets flags override it.
func (a *app) configure() error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.storeURL != "" {
		cfg.Store = a.storeURL
	}
	cfg.applyEnv()
	a.cfg = cfg
	return nil
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(ctx context.Context, fn func(*formdb.Store) error) (err error) {
	level, err := a.cfg.logLevel(a.verbose)
	if err != nil {
		return err
	}

	backend, closeFn, err := openBackend(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	db, err := formdb.New(ctx, backend, formdb.WithLogLevel(level))
	if err != nil {
		return err
	}
	return fn(db)
}

func checkCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("--count must be positive, got %d", n)
	}
	return nil
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func (a *app) wordsCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "words <base>",
		Short: "List the words closest to base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCount(count); err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(db *formdb.Store) error {
				printLines(cmd.OutOrStdout(), db.SimilarWords(args[0], count))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", defaultCount, "maximum number of results")
	return cmd
}

func (a *app) formsCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "forms <word> <base>",
		Short: "List the forms of word closest to base",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCount(count); err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(db *formdb.Store) error {
				printLines(cmd.OutOrStdout(), db.SimilarForms(args[0], args[1], count))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", defaultCount, "maximum number of results")
	return cmd
}

// errNotFound is returned by get for an absent key.
var errNotFound = errors.New("word form not found")

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <word> <form>",
		Short: "Print the description of a word form",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(db *formdb.Store) error {
				rec, ok := db.Lookup(args[0], args[1])
				if !ok {
					return fmt.Errorf("%w: %s", errNotFound, formdb.Key{Word: args[0], Form: args[1]})
				}
				fmt.Fprintln(cmd.OutOrStdout(), rec.Description)
				return nil
			})
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <word> <form> <description>",
		Short: "Create or update a word form",
		Args:  nonEmptyArgs(3, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(db *formdb.Store) error {
				return db.UpdateWordForm(cmd.Context(), formdb.Record{
					Word:        args[0],
					Form:        args[1],
					Description: args[2],
				})
			})
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <word> <form>",
		Short: "Delete a word form",
		Args:  nonEmptyArgs(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(db *formdb.Store) error {
				return db.DeleteWordForm(cmd.Context(), args[0], args[1])
			})
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c codec.Codec
			if format != "tsv" {
				var err error
				if c, err = codec.ByName(format); err != nil {
					return fmt.Errorf("unknown format %q: want tsv, json, go-json or stdjson", format)
				}
			}
			return a.withStore(cmd.Context(), func(db *formdb.Store) error {
				out := cmd.OutOrStdout()
				records := db.Records()

				if c == nil {
					return tsv.Encode(out, records, tsv.CompressionNone)
				}

				if records == nil {
					records = []formdb.Record{}
				}
				data, err := c.Marshal(records)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "tsv", "output format: tsv, json, go-json or stdjson")
	return cmd
}

// nonEmptyArgs requires exactly n arguments of which the first keyLen
// must not be empty.
func nonEmptyArgs(n, keyLen int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return err
		}
		for i := 0; i < keyLen; i++ {
			if args[i] == "" {
				return fmt.Errorf("argument %d must not be empty", i+1)
			}
		}
		return nil
	}
}
