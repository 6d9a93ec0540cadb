package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"go-land-inspector/internal/client"
	"go-land-inspector/internal/logger"
	"go-land-inspector/internal/presentation"
	"go-land-inspector/pkg/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func (a *App) analyzeCommand() *cobra.Command {
	var (
		lat, lng string
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file|url>",
		Short: "Analyze an aerial image and print the suitability report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			up, err := a.loadImage(ctx, args[0])
			if err != nil {
				return err
			}
			up.Lat, up.Lng = lat, lng

			logger.WithFields(logrus.Fields{
				"source":    args[0],
				"mime_type": up.MIMEType,
				"size":      len(up.Data),
			}).Debug("Uploading image for analysis")

			report, err := a.analyzerClient().Analyze(ctx, up)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if err := presentation.RenderText(a.out, report); err != nil {
				return err
			}
			if noSave {
				return nil
			}

			history, err := a.historyRepo()
			if err != nil {
				return err
			}
			if err := history.Add(ctx, report); err != nil {
				return fmt.Errorf("save to history: %w", err)
			}
			_, err = fmt.Fprintln(a.out, "\nSaved to history as entry 1.")
			return err
		},
	}

	cmd.Flags().StringVar(&lat, "lat", "", "parcel latitude in decimal degrees")
	cmd.Flags().StringVar(&lng, "lng", "", "parcel longitude in decimal degrees")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not add the report to history")
	return cmd
}

// loadImage reads a local file or downloads a URL, then checks the sniffed
// content type and size with the same rules the server applies.
func (a *App) loadImage(ctx context.Context, location string) (client.Upload, error) {
	var (
		data []byte
		name string
	)

	if validation.IsRemote(location) {
		if err := a.urls.ValidateImageURL(location); err != nil {
			return client.Upload{}, err
		}
		img, err := a.fetcher.FetchImage(ctx, location)
		if err != nil {
			return client.Upload{}, err
		}
		data, name = img.Data, remoteName(location)
	} else {
		info, err := os.Stat(location)
		if err != nil {
			return client.Upload{}, err
		}
		if err := a.uploads.ValidateSize(info.Size()); err != nil {
			return client.Upload{}, err
		}
		if data, err = os.ReadFile(location); err != nil {
			return client.Upload{}, err
		}
		name = filepath.Base(location)
	}

	mimeType := mimetype.Detect(data).String()
	if err := a.uploads.Validate(mimeType, int64(len(data))); err != nil {
		return client.Upload{}, err
	}

	return client.Upload{
		Filename: name,
		MIMEType: validation.NormalizeContentType(mimeType),
		Data:     data,
	}, nil
}

func remoteName(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return "image"
	}
	if name := path.Base(u.Path); name != "." && name != "/" {
		return name
	}
	return "image"
}
