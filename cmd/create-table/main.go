// Command create-table provisions the users table and its email index.
// Meant for DynamoDB Local and fresh environments; running it against an
// existing table is a no-op.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"users-api/internal/config"
	"users-api/internal/store"
)

const readyTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
	defer cancel()

	client, err := store.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("failed to configure store client", "error", err)
		os.Exit(1)
	}

	if _, err := client.CreateTable(ctx, store.CreateTableInput(cfg.DynamoTable)); err != nil {
		var exists *types.ResourceInUseException
		if errors.As(err, &exists) {
			slog.Info("table already exists", "table", cfg.DynamoTable)
			return
		}
		slog.Error("failed to create table", "table", cfg.DynamoTable, "error", err)
		os.Exit(1)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(cfg.DynamoTable),
	}, readyTimeout); err != nil {
		slog.Error("table did not become active", "table", cfg.DynamoTable, "error", err)
		os.Exit(1)
	}

	slog.Info("table created", "table", cfg.DynamoTable, "index", store.EmailIndex)
}
