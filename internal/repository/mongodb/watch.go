package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// watched lists the collections whose changes the snapshot hub cares about.
var watched = map[string]struct{}{
	collRecords:   {},
	collPrices:    {},
	collFactories: {},
	collPlots:     {},
	collReminders: {},
}

type changeEvent struct {
	NS struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
}

// Watch opens a database change stream and emits the name of each changed
// collection. The channel closes when the stream ends or the context is
// canceled. Change streams need a replica set; on a standalone deployment
// this returns an error and callers fall back to write-path reloads.
func (r *Repository) Watch(ctx context.Context) (<-chan string, error) {
	stream, err := r.client.Database(r.dbName).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	events := make(chan string, 8)
	go func() {
		defer close(events)
		defer func() { _ = stream.Close(context.Background()) }()

		for stream.Next(ctx) {
			var ev changeEvent
			if err := stream.Decode(&ev); err != nil {
				r.logger.Debug("undecodable change event", zap.Error(err))
				continue
			}
			if _, ok := watched[ev.NS.Coll]; !ok {
				continue
			}
			select {
			case events <- ev.NS.Coll:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Error("change stream terminated", zap.Error(err))
		}
	}()

	return events, nil
}
