package merge

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect opens a client against uri and returns both the client (so the
// caller can Disconnect it) and the database the URI names. A URI that
// parses but names no database is a fatal configuration error rather than a
// silent fallback to some default database.
func Connect(ctx context.Context, uri string) (*mongo.Client, *mongo.Database, error) {
	dbName, err := databaseName(uri)
	if err != nil {
		return nil, nil, err
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: connecting to %s: %v", ErrConnection, uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("%w: pinging %s: %v", ErrConnection, uri, err)
	}

	return client, client.Database(dbName), nil
}

func databaseName(uri string) (string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: parsing URI %q: %v", ErrConnection, uri, err)
	}
	name := strings.TrimPrefix(parsed.Path, "/")
	if name == "" {
		return "", fmt.Errorf("%w: URI %q names no database", ErrConnection, uri)
	}
	return name, nil
}
