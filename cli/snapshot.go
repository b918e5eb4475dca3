package cli

import (
	"path/filepath"

	"github.com/code19m/errx"
	"github.com/spf13/cobra"

	"github.com/rise-and-shine/catalog/cfgloader"
	"github.com/rise-and-shine/catalog/filestore"
	"github.com/rise-and-shine/catalog/filestore/miniowr"
	"github.com/rise-and-shine/catalog/store"
	"github.com/rise-and-shine/catalog/usecase"
)

const codeMinioDisabled = "MINIO_NOT_CONFIGURED"

func newSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage catalog snapshots",
	}
	cmd.AddCommand(newSnapshotPushCommand(), newSnapshotSeedCommand())
	return cmd
}

func newSnapshotPushCommand() *cobra.Command {
	var object string

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Validate a snapshot file and upload it to MinIO",
		Long: `Validates a YAML or JSON snapshot and uploads it to the bucket in
source.minio. The object name defaults to source.object.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgloader.WithSilent())
			if err != nil {
				return err
			}
			if cfg.Source.Minio == nil {
				return errx.New(
					"snapshot push needs source.minio in the config",
					errx.WithCode(codeMinioDisabled),
					errx.WithType(errx.T_Validation),
				)
			}

			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			client, err := miniowr.New(*cfg.Source.Minio)
			if err != nil {
				return errx.Wrap(err)
			}

			if object == "" {
				object = cfg.Source.Object
			}
			return usecase.NewPushSnapshot(client).Execute(cmd.Context(), &usecase.PushSnapshotInput{
				Object: object,
				Data:   data,
			})
		},
	}

	cmd.Flags().StringVar(&object, "object", "", "object name in the bucket (default source.object)")
	return cmd
}

func newSnapshotSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Write a snapshot file into the sqlite or postgres source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgloader.WithSilent())
			if err != nil {
				return err
			}

			dir, name := filepath.Split(args[0])
			snap, err := store.LoadSnapshot(cmd.Context(), filestore.NewDir(dir), name, cfg.Source.MaxSnapshotBytes)
			if err != nil {
				return errx.Wrap(err)
			}

			return usecase.NewSeedCatalog(cfg.Source).Execute(cmd.Context(), &usecase.SeedCatalogInput{Snapshot: snap})
		},
	}
}
