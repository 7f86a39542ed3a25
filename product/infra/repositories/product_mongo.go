package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/giovaniif/fusion-store/product/domain/product"
)

const productsCollection = "products"

type priceDocument struct {
	Amount   float64 `bson:"amount"`
	Currency string  `bson:"currency"`
}

type imageDocument struct {
	URL       string `bson:"url"`
	Thumbnail string `bson:"thumbnail"`
	Id        string `bson:"id"`
}

type productDocument struct {
	Id          bson.ObjectID   `bson:"_id,omitempty"`
	Title       string          `bson:"title"`
	Description string          `bson:"description,omitempty"`
	Price       priceDocument   `bson:"price"`
	Seller      bson.ObjectID   `bson:"seller"`
	Images      []imageDocument `bson:"images"`
	Stock       *int            `bson:"stock,omitempty"`
}

type ProductRepositoryMongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func NewProductRepositoryMongo(client *mongo.Client, database string) *ProductRepositoryMongo {
	return &ProductRepositoryMongo{
		client:     client,
		collection: client.Database(database).Collection(productsCollection),
	}
}

// EnsureIndexes creates the text index that q searches rely on.
func (r *ProductRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
	})
	return err
}

func (r *ProductRepositoryMongo) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	doc, err := toDocument(p)
	if err != nil {
		return nil, err
	}
	doc.Id = bson.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	return fromDocument(doc), nil
}

func (r *ProductRepositoryMongo) FindById(ctx context.Context, id string) (*product.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc productDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find one: %w", err)
	}
	return fromDocument(&doc), nil
}

func (r *ProductRepositoryMongo) Find(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	query := bson.M{}
	if filter.Query != "" {
		query["$text"] = bson.M{"$search": filter.Query}
	}
	priceRange := bson.M{}
	if filter.MinPrice != nil {
		priceRange["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		priceRange["$lte"] = *filter.MaxPrice
	}
	if len(priceRange) > 0 {
		query["price.amount"] = priceRange
	}
	if filter.Seller != "" {
		seller, err := bson.ObjectIDFromHex(filter.Seller)
		if err != nil {
			return []product.Product{}, nil
		}
		query["seller"] = seller
	}

	opts := options.Find().SetSkip(int64(filter.Skip))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo cursor: %w", err)
	}

	out := make([]product.Product, 0, len(docs))
	for i := range docs {
		out = append(out, *fromDocument(&docs[i]))
	}
	return out, nil
}

func (r *ProductRepositoryMongo) Update(ctx context.Context, id string, update product.Update) (*product.Product, error) {
	if update.IsEmpty() {
		return r.FindById(ctx, id)
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Amount != nil {
		set["price.amount"] = *update.Amount
	}
	if update.Currency != nil {
		set["price.currency"] = *update.Currency
	}

	var doc productDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	return fromDocument(&doc), nil
}

func (r *ProductRepositoryMongo) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("mongo delete: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// Reserve decrements tracked stock in a single conditional update. When that
// matches nothing the product is re-read to tell a missing product, untracked
// stock and insufficient stock apart.
func (r *ProductRepositoryMongo) Reserve(ctx context.Context, id string, quantity int) (*product.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, product.ErrNotFound
	}

	var doc productDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return fromDocument(&doc), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("mongo reserve: %w", err)
	}

	current, err := r.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, product.ErrNotFound
	}
	if current.Stock == nil {
		return current, nil
	}
	return nil, product.ErrInsufficientStock
}

func (r *ProductRepositoryMongo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func toDocument(p *product.Product) (*productDocument, error) {
	seller, err := bson.ObjectIDFromHex(p.Seller)
	if err != nil {
		return nil, fmt.Errorf("invalid seller id %q: %w", p.Seller, err)
	}
	images := make([]imageDocument, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageDocument{URL: img.URL, Thumbnail: img.Thumbnail, Id: img.Id})
	}
	return &productDocument{
		Title:       p.Title,
		Description: p.Description,
		Price:       priceDocument{Amount: p.Price.Amount, Currency: p.Price.Currency},
		Seller:      seller,
		Images:      images,
		Stock:       p.Stock,
	}, nil
}

func fromDocument(doc *productDocument) *product.Product {
	images := make([]product.Image, 0, len(doc.Images))
	for _, img := range doc.Images {
		images = append(images, product.Image{URL: img.URL, Thumbnail: img.Thumbnail, Id: img.Id})
	}
	return &product.Product{
		Id:          doc.Id.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Price:       product.Price{Amount: doc.Price.Amount, Currency: doc.Price.Currency},
		Seller:      doc.Seller.Hex(),
		Images:      images,
		Stock:       doc.Stock,
	}
}
