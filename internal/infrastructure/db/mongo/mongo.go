package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultTimeout bounds every credential-store call issued by the
// repository; connectTimeout bounds the initial dial and ping.
const (
	defaultTimeout = 10 * time.Second
	connectTimeout = 10 * time.Second
)

// Connect dials the MongoDB deployment backing the credential store and
// pings it before handing back the client and the named database. The
// service refuses to start on an unreachable store, so failures here are
// fatal to the caller.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("credential store connect: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, nil, fmt.Errorf("credential store ping: %w", err)
	}

	return client, client.Database(database), nil
}
