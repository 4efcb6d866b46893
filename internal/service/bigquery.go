package service

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Catalog lists the tables available in the configured BigQuery dataset.
type Catalog struct {
	client    *bigquery.Client
	projectID string
}

// NewCatalog creates a BigQuery-backed table catalog.
func NewCatalog(ctx context.Context, projectID, credentialsFile string) (*Catalog, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}

	return &Catalog{
		client:    client,
		projectID: projectID,
	}, nil
}

// Close releases the BigQuery client
func (c *Catalog) Close() error {
	return c.client.Close()
}

// ListTables returns the table ids in a dataset. The dataset may arrive
// fully qualified ("project.dataset"), in which case the embedded project
// takes precedence over the catalog's own.
func (c *Catalog) ListTables(ctx context.Context, datasetID string) ([]string, error) {
	project := c.projectID
	dataset := datasetID
	if i := strings.IndexByte(datasetID, '.'); i >= 0 {
		project, dataset = datasetID[:i], datasetID[i+1:]
	}

	var tables []string
	it := c.client.DatasetInProject(project, dataset).Tables(ctx)
	for {
		tbl, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list tables in %q: %w", datasetID, err)
		}
		tables = append(tables, tbl.TableID)
	}
	return tables, nil
}
