package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcus/resume-pilot/internal/bundle"
	"github.com/marcus/resume-pilot/internal/session"
)

var exportBundleCmd = &cobra.Command{
	Use:   "export-bundle",
	Short: "Export a session's artifacts as a zip archive",
	RunE:  runExportBundle,
}

var importBundleCmd = &cobra.Command{
	Use:   "import-bundle",
	Short: "Restore a session from an exported zip archive",
	RunE:  runImportBundle,
}

var (
	exportSessionID string
	exportOutPath   string

	importArchive  string
	importCompany  string
	importPosition string
)

func init() {
	exportBundleCmd.Flags().StringVarP(&exportSessionID, "session", "s", "", "Session ID (required)")
	exportBundleCmd.Flags().StringVarP(&exportOutPath, "out", "o", "", "Output path for the archive (defaults to <session>_bundle.zip in the working directory)")
	_ = exportBundleCmd.MarkFlagRequired("session")

	importBundleCmd.Flags().StringVarP(&importArchive, "archive", "a", "", "Path to the bundle zip (required)")
	importBundleCmd.Flags().StringVarP(&importCompany, "company", "c", "", "Company name for the restored session (required)")
	importBundleCmd.Flags().StringVarP(&importPosition, "position", "p", "", "Position title for the restored session (required)")
	_ = importBundleCmd.MarkFlagRequired("archive")
	_ = importBundleCmd.MarkFlagRequired("company")
	_ = importBundleCmd.MarkFlagRequired("position")

	rootCmd.AddCommand(exportBundleCmd)
	rootCmd.AddCommand(importBundleCmd)
}

func runExportBundle(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	sess, err := openSessionArg(cfg, exportSessionID)
	if err != nil {
		return err
	}

	data, err := bundle.Export(sess)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("session %s has no artifacts to export", sess.ID)
	}

	outPath := exportOutPath
	if outPath == "" {
		outPath = bundle.Filename(sess)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Exported: %s\n", outPath)
	return nil
}

func runImportBundle(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(importArchive)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	store := session.NewStore(cfg.OutputBaseDir)
	sess, stage, err := bundle.Import(store, data, importCompany, importPosition)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Session: %s\n", sess.ID)
	fmt.Fprintf(os.Stdout, "Checkpoint: %s\n", stage)
	fmt.Fprintf(os.Stdout, "Directory: %s\n", filepath.Clean(sess.Dir))
	return nil
}
