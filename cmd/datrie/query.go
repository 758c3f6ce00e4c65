package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"

	"github.com/hupe1980/datrie"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addDictFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dict", "d", "", wrapString("trie to query: a file, s3://bucket/key or minio://bucket/key"))
	cmd.Flags().Int64("offset", 0, wrapString("byte offset of the trie inside the file or object"))
	cmd.Flags().Int("size", 0, wrapString("number of units to read, 0 for everything after the offset"))
	cmd.Flags().Bool("mmap", false, wrapString("memory-map local raw dumps instead of reading them"))
}

// openDict loads the trie selected by the dict flags.
func openDict(cmd *cobra.Command) (*datrie.Trie, error) {
	dict := viper.GetString("dict")
	if dict == "" {
		return nil, errors.New("no trie given, use --dict or DATRIE_DICT")
	}
	l, err := parseLocation(dict)
	if err != nil {
		return nil, err
	}
	t, err := newTrie()
	if err != nil {
		return nil, err
	}
	if err := load(cmd.Context(), t, l, viper.GetInt64("offset"), viper.GetInt("size"), viper.GetBool("mmap")); err != nil {
		return nil, err
	}
	return t, nil
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "find [keys...]",
		Short:   "Look up keys",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openDict(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			keys := make([][]byte, len(args))
			for i, a := range args {
				keys[i] = []byte(a)
			}
			results, err := t.FindBatch(cmd.Context(), keys)
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()
			for i, r := range results {
				if r.Found {
					fmt.Fprintf(w, "%s\t%d\n", args[i], r.Value)
				} else {
					fmt.Fprintf(w, "%s\tnot found\n", args[i])
				}
			}
			return nil
		},
	}
	addDictFlags(cmd)
	return cmd
}

func newPrefixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefix [query]",
		Short:   "List stored keys that are prefixes of the query",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openDict(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			query := []byte(args[0])
			matches, total := t.CommonPrefixMatches(query, viper.GetInt("max"))

			out := cmd.OutOrStdout()
			for _, m := range matches {
				fmt.Fprintf(out, "%s\t%d\n", query[:m.Length], m.Value)
			}
			if total > len(matches) {
				fmt.Fprintf(out, "... %d more\n", total-len(matches))
			}
			return nil
		},
	}
	addDictFlags(cmd)
	cmd.Flags().Int("max", 64, wrapString("maximum number of prefixes to print"))
	return cmd
}

func traverseStatus(v int32) string {
	switch v {
	case datrie.TraverseNoValue:
		return "no value"
	case datrie.TraverseDeadEnd:
		return "dead end"
	case datrie.TraverseEmpty:
		return "empty"
	default:
		return strconv.Itoa(int(v))
	}
}

func newTraverseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "traverse [query]",
		Short:   "Walk the query one byte at a time",
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openDict(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			query := []byte(args[0])
			out := cmd.OutOrStdout()
			nodePos, keyPos := 0, 0
			for i := range query {
				v := t.Traverse(query[:i+1], &nodePos, &keyPos)
				fmt.Fprintf(out, "%s\tnode %d\t%s\n", query[:i+1], nodePos, traverseStatus(v))
				if v == datrie.TraverseDeadEnd || v == datrie.TraverseEmpty {
					break
				}
			}
			return nil
		},
	}
	addDictFlags(cmd)
	return cmd
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keys [prefix]",
		Short:   "List stored keys in byte order, optionally below a prefix",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openDict(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			var prefix []byte
			if len(args) == 1 {
				prefix = []byte(args[0])
			}

			limit := viper.GetInt("limit")
			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()
			n := 0
			for key, v := range t.PredictiveSearch(prefix) {
				if limit > 0 && n == limit {
					break
				}
				fmt.Fprintf(w, "%s\t%d\n", key, v)
				n++
			}
			return nil
		},
	}
	addDictFlags(cmd)
	cmd.Flags().Int("limit", 0, wrapString("stop after this many keys, 0 for all"))
	return cmd
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info",
		Short:   "Print size and structure of a trie",
		Args:    cobra.NoArgs,
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := openDict(cmd)
			if err != nil {
				return err
			}
			defer t.Close()

			stats, err := t.Verify()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "units:      %d\n", t.Size())
			fmt.Fprintf(out, "unit size:  %d\n", t.UnitSize())
			fmt.Fprintf(out, "total size: %d\n", t.TotalSize())
			fmt.Fprintf(out, "nodes:      %d\n", stats.Nodes)
			fmt.Fprintf(out, "keys:       %d\n", stats.Keys)
			fmt.Fprintf(out, "unused:     %d\n", stats.Unused)
			fmt.Fprintf(out, "max depth:  %d\n", stats.MaxDepth)
			fmt.Fprintf(out, "mapped:     %t\n", stats.Mapped)
			return nil
		},
	}
	addDictFlags(cmd)
	return cmd
}
