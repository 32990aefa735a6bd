// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"sitebuilder/internal/models"
)

// mongoConnect is swapped in tests.
var mongoConnect = mongo.Connect

// websiteDocument is the stored shape of a website. The aggregate is kept
// as its JSON text so numbers and unknown block fields survive unchanged.
type websiteDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Revision  int64     `bson:"revision"`
	Document  string    `bson:"document"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoWebsiteStore persists websites in a MongoDB collection.
type MongoWebsiteStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo opens a client for uri and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("missing mongo uri")
	}
	client, err := mongoConnect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// NewMongoWebsiteStore uses the "websites" collection of database.
func NewMongoWebsiteStore(client *mongo.Client, database string) *MongoWebsiteStore {
	return &MongoWebsiteStore{
		client: client,
		coll:   client.Database(database).Collection("websites"),
	}
}

// Get retrieves a website by id. Returns nil if not found.
func (s *MongoWebsiteStore) Get(ctx context.Context, id string) (*models.Website, error) {
	var doc websiteDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find website by id: %w", err)
	}
	return decodeWebsite(doc.Document)
}

// List returns all websites, most recently updated first.
func (s *MongoWebsiteStore) List(ctx context.Context) ([]models.Website, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Website
	for cursor.Next(ctx) {
		var doc websiteDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode website document: %w", err)
		}
		w, err := decodeWebsite(doc.Document)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	return items, cursor.Err()
}

// Put inserts or replaces the whole website document.
func (s *MongoWebsiteStore) Put(ctx context.Context, w *models.Website) error {
	text, err := encodeWebsite(w)
	if err != nil {
		return err
	}
	doc := websiteDocument{
		ID:        w.ID,
		Name:      w.Name,
		Revision:  w.Revision,
		Document:  text,
		UpdatedAt: w.UpdatedAt.UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": w.ID}, doc, opts); err != nil {
		return fmt.Errorf("put website: %w", err)
	}
	return nil
}

// Delete removes a website. Deleting a missing website is not an error.
func (s *MongoWebsiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete website: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoWebsiteStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
