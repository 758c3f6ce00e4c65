package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hupe1980/datrie/blobstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeAt returns the store holding l and the name of l inside it. Local
// locations are served by a LocalStore rooted at their directory.
func storeAt(ctx context.Context, l location) (blobstore.BlobStore, string, error) {
	if !l.remote() {
		return blobstore.NewLocalStore(filepath.Dir(l.name)), filepath.Base(l.name), nil
	}
	store, err := openStore(ctx, l)
	if err != nil {
		return nil, "", err
	}
	return store, l.name, nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [location]",
		Short: "List stored tries",
		Long: `List the blobs of a local directory or below an s3://bucket/prefix
or minio://bucket/prefix location.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := parsePrefix(args[0])
			if err != nil {
				return err
			}

			var (
				store  blobstore.BlobStore
				prefix string
			)
			if l.remote() {
				if store, err = openStore(cmd.Context(), l); err != nil {
					return err
				}
				prefix = l.name
			} else {
				store = blobstore.NewLocalStore(l.name)
			}

			names, err := store.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}

			long := viper.GetBool("long")
			out := cmd.OutOrStdout()
			for _, name := range names {
				if !long {
					fmt.Fprintln(out, name)
					continue
				}
				blob, err := store.Open(cmd.Context(), name)
				if err != nil {
					return err
				}
				size := blob.Size()
				_ = blob.Close()
				fmt.Fprintf(out, "%d\t%s\n", size, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("long", "l", false, wrapString("print the size in bytes before each name"))
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [locations...]",
		Short:   "Remove stored tries",
		Long:    `Remove files or s3:// and minio:// objects. Missing ones are ignored.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				l, err := parseLocation(arg)
				if err != nil {
					return err
				}
				store, name, err := storeAt(cmd.Context(), l)
				if err != nil {
					return err
				}
				if err := store.Delete(cmd.Context(), name); err != nil {
					return fmt.Errorf("removing %s: %w", l, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", l)
			}
			return nil
		},
	}
}
