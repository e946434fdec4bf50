package simulator

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodmatch/internal/cloudwriter"
	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/chrisdamba/foodmatch/internal/output"
	"github.com/chrisdamba/foodmatch/internal/simulator/producers"
)

// determineOutputDestination picks where lifecycle events are exported.
// Kafka takes precedence over the file and database formats.
func (s *Simulator) determineOutputDestination(ctx context.Context) (output.Destination, error) {
	cfg := s.Config
	if cfg.KafkaEnabled {
		producer, err := producers.NewSaramaProducer(cfg.KafkaBrokerList, s.RunID)
		if err != nil {
			return nil, err
		}
		return producer, nil
	}

	switch cfg.OutputFormat {
	case models.OutputNone:
		return output.NoopOutput{}, nil
	case models.OutputJSON:
		return output.NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case models.OutputCSV:
		return output.NewCSVOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case models.OutputParquet:
		return s.newParquetOutput(ctx)
	case models.OutputPostgres:
		return output.NewPostgresOutput(ctx, cfg.Database.DSN)
	case models.OutputConsole, "":
		return output.NewConsoleOutput(nil), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
}

func (s *Simulator) newParquetOutput(ctx context.Context) (output.Destination, error) {
	cfg := s.Config
	if cfg.CloudStorage.BucketName == "" {
		return output.NewParquetOutput(cfg.OutputPath, cfg.OutputFolder, nil, ""), nil
	}

	var factory cloudwriter.CloudWriterFactory
	switch cfg.CloudStorage.Provider {
	case "s3":
		s3Factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		factory = s3Factory
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
	}
	return output.NewParquetOutput(cfg.OutputPath, cfg.OutputFolder, factory, cfg.CloudStorage.BucketName), nil
}
