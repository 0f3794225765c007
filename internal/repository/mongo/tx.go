package mongo

import (
	"alcyxob/workout-roulette/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoTxManager implements repository.TxManager on top of MongoDB sessions.
// The session context is threaded through ctx, so repositories participate
// in the transaction without knowing about it.
type mongoTxManager struct {
	client *mongo.Client
}

// NewMongoTxManager creates a transaction manager bound to a client.
func NewMongoTxManager(client *mongo.Client) repository.TxManager {
	return &mongoTxManager{client: client}
}

// WithTransaction runs fn inside a MongoDB transaction. All repository
// operations performed with the callback's context commit or abort together.
// Requires a replica set (standalone mongod does not support transactions).
func (m *mongoTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
