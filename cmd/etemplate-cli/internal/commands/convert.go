package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"etemplate-service/internal/core/domain"
	"etemplate-service/internal/core/services"
	"etemplate-service/internal/core/transform"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file|dir>",
		Short: "Convert a template to stdout, or a directory of templates into --out",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	cmd.Flags().String("out", "", "output directory, mirrors the input tree")
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("invalid out flag: %w", err)
	}

	svc := services.NewTemplateService(nil, nil, transform.New(), nil, services.TemplateServiceConfig{})
	input := filepath.Clean(args[0])

	fi, err := os.Stat(input)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		converted, err := convertFile(svc, input)
		if err != nil {
			return err
		}
		if out == "" {
			_, err = cmd.OutOrStdout().Write(converted)
			return err
		}
		return writeFile(filepath.Join(out, filepath.Base(input)), converted)
	}

	if out == "" {
		return fmt.Errorf("--out is required to convert a directory")
	}

	count := 0
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, domain.TemplateExt) {
			return nil
		}
		converted, err := convertFile(svc, path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		count++
		return writeFile(filepath.Join(out, rel), converted)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"templates": count, "out": out}).Info("templates converted")
	return nil
}

func convertFile(svc *services.TemplateService, path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return svc.Convert(raw, filepath.Base(path))
}

func writeFile(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
