package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/domain/models"
)

// Collection names. The five watched collections mirror the snapshot hub's
// constants; settings and report_snapshots are write-through only.
const (
	collRecords   = "tea_records"
	collPrices    = "monthly_prices"
	collFactories = "factories"
	collPlots     = "plots"
	collReminders = "reminders"
	collSettings  = "settings"
	collSnapshots = "report_snapshots"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Repository is the MongoDB adapter for all estate collections. Every call
// is scoped to the estate the repository was constructed for.
type Repository struct {
	client *mongo.Client
	dbName string
	estate string
	logger *zap.Logger
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri, dbName, estate string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName, estate: estate, logger: logger}, nil
}

func (r *Repository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

func (r *Repository) scope() bson.M {
	return bson.M{"estate": r.estate}
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// ListRecords returns all harvest records, newest date first.
func (r *Repository) ListRecords(ctx context.Context) ([]models.HarvestRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll(collRecords).Find(ctx, r.scope(), opts)
	if err != nil {
		return nil, fmt.Errorf("find harvest records: %w", err)
	}

	var records []models.HarvestRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode harvest records: %w", err)
	}
	return records, nil
}

// CreateRecord inserts a new harvest record and returns its assigned id.
func (r *Repository) CreateRecord(ctx context.Context, rec models.HarvestRecord) (string, error) {
	rec.ID = primitive.NewObjectID().Hex()
	rec.Estate = r.estate
	rec.CreatedAt = time.Now().UTC()

	if _, err := r.coll(collRecords).InsertOne(ctx, rec); err != nil {
		return "", fmt.Errorf("insert harvest record: %w", err)
	}
	return rec.ID, nil
}

// UpdateRecord replaces the mutable fields of an existing record.
func (r *Repository) UpdateRecord(ctx context.Context, rec models.HarvestRecord) error {
	update := bson.M{"$set": bson.M{
		"date":           rec.Date,
		"plot_id":        rec.PlotID,
		"plot_name":      rec.PlotName,
		"factory_id":     rec.FactoryID,
		"factory_name":   rec.FactoryName,
		"harvest_amount": rec.HarvestAmount,
		"worker_count":   rec.WorkerCount,
		"labor_cost":     rec.LaborCost,
		"transport_cost": rec.TransportCost,
		"other_cost":     rec.OtherCost,
		"notes":          rec.Notes,
		"image":          rec.Image,
		"updated_at":     time.Now().UTC(),
	}}

	res, err := r.coll(collRecords).UpdateOne(ctx, bson.M{"_id": rec.ID, "estate": r.estate}, update)
	if err != nil {
		return fmt.Errorf("update harvest record %s: %w", rec.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRecord removes a record permanently.
func (r *Repository) DeleteRecord(ctx context.Context, id string) error {
	res, err := r.coll(collRecords).DeleteOne(ctx, bson.M{"_id": id, "estate": r.estate})
	if err != nil {
		return fmt.Errorf("delete harvest record %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PriceBook assembles the full month -> factory -> price mapping.
func (r *Repository) PriceBook(ctx context.Context) (models.PriceBook, error) {
	cursor, err := r.coll(collPrices).Find(ctx, r.scope())
	if err != nil {
		return nil, fmt.Errorf("find price tables: %w", err)
	}

	var docs []models.MonthlyPriceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode price tables: %w", err)
	}

	book := make(models.PriceBook, len(docs))
	for _, doc := range docs {
		book[doc.Month] = doc.Prices
	}
	return book, nil
}

// MergeMonthPrices merges per-factory prices into a month's table, creating
// it on first write. Factories absent from the input keep their stored
// value; price tables are never deleted.
func (r *Repository) MergeMonthPrices(ctx context.Context, month string, prices models.MonthPrices) error {
	set := bson.M{
		"estate":     r.estate,
		"month":      month,
		"updated_at": time.Now().UTC(),
	}
	for factoryID, price := range prices {
		set["prices."+factoryID] = price
	}

	docID := r.estate + ":" + month
	_, err := r.coll(collPrices).UpdateOne(ctx,
		bson.M{"_id": docID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("merge prices for %s: %w", month, err)
	}

	r.logger.Debug("month prices merged", zap.String("month", month), zap.Int("factories", len(prices)))
	return nil
}

// ListFactories returns the factory reference list.
func (r *Repository) ListFactories(ctx context.Context) ([]models.Factory, error) {
	cursor, err := r.coll(collFactories).Find(ctx, r.scope())
	if err != nil {
		return nil, fmt.Errorf("find factories: %w", err)
	}
	var factories []models.Factory
	if err := cursor.All(ctx, &factories); err != nil {
		return nil, fmt.Errorf("decode factories: %w", err)
	}
	return factories, nil
}

// CreateFactory adds a named factory.
func (r *Repository) CreateFactory(ctx context.Context, name string) (string, error) {
	f := models.Factory{ID: primitive.NewObjectID().Hex(), Estate: r.estate, Name: name}
	if _, err := r.coll(collFactories).InsertOne(ctx, f); err != nil {
		return "", fmt.Errorf("insert factory: %w", err)
	}
	return f.ID, nil
}

// DeleteFactory removes a factory. Records referencing it keep their
// denormalized name snapshot; nothing cascades.
func (r *Repository) DeleteFactory(ctx context.Context, id string) error {
	res, err := r.coll(collFactories).DeleteOne(ctx, bson.M{"_id": id, "estate": r.estate})
	if err != nil {
		return fmt.Errorf("delete factory %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPlots returns the plot reference list.
func (r *Repository) ListPlots(ctx context.Context) ([]models.Plot, error) {
	cursor, err := r.coll(collPlots).Find(ctx, r.scope())
	if err != nil {
		return nil, fmt.Errorf("find plots: %w", err)
	}
	var plots []models.Plot
	if err := cursor.All(ctx, &plots); err != nil {
		return nil, fmt.Errorf("decode plots: %w", err)
	}
	return plots, nil
}

// CreatePlot adds a named plot.
func (r *Repository) CreatePlot(ctx context.Context, name string) (string, error) {
	p := models.Plot{ID: primitive.NewObjectID().Hex(), Estate: r.estate, Name: name}
	if _, err := r.coll(collPlots).InsertOne(ctx, p); err != nil {
		return "", fmt.Errorf("insert plot: %w", err)
	}
	return p.ID, nil
}

// DeletePlot removes a plot without touching records that reference it.
func (r *Repository) DeletePlot(ctx context.Context, id string) error {
	res, err := r.coll(collPlots).DeleteOne(ctx, bson.M{"_id": id, "estate": r.estate})
	if err != nil {
		return fmt.Errorf("delete plot %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReminders returns reminders sorted by date ascending.
func (r *Repository) ListReminders(ctx context.Context) ([]models.Reminder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll(collReminders).Find(ctx, r.scope(), opts)
	if err != nil {
		return nil, fmt.Errorf("find reminders: %w", err)
	}
	var rems []models.Reminder
	if err := cursor.All(ctx, &rems); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	return rems, nil
}

// CreateReminder schedules a new pending reminder.
func (r *Repository) CreateReminder(ctx context.Context, date string) (string, error) {
	rem := models.Reminder{
		ID:     primitive.NewObjectID().Hex(),
		Estate: r.estate,
		Date:   date,
		Status: models.ReminderPending,
	}
	if _, err := r.coll(collReminders).InsertOne(ctx, rem); err != nil {
		return "", fmt.Errorf("insert reminder: %w", err)
	}
	return rem.ID, nil
}

// CompleteReminder marks a pending reminder completed. The transition is
// one-way; completed reminders are never reopened.
func (r *Repository) CompleteReminder(ctx context.Context, id string) error {
	res, err := r.coll(collReminders).UpdateOne(ctx,
		bson.M{"_id": id, "estate": r.estate, "status": models.ReminderPending},
		bson.M{"$set": bson.M{"status": models.ReminderCompleted}})
	if err != nil {
		return fmt.Errorf("complete reminder %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReminder removes a reminder from either state.
func (r *Repository) DeleteReminder(ctx context.Context, id string) error {
	res, err := r.coll(collReminders).DeleteOne(ctx, bson.M{"_id": id, "estate": r.estate})
	if err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Security loads the estate's PIN settings. A missing document returns an
// empty Security so first-run setup can detect it.
func (r *Repository) Security(ctx context.Context) (models.Security, error) {
	var sec models.Security
	err := r.coll(collSettings).FindOne(ctx, bson.M{"_id": r.estate + ":security"}).Decode(&sec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Security{Estate: r.estate}, nil
	}
	if err != nil {
		return models.Security{}, fmt.Errorf("load security settings: %w", err)
	}
	return sec, nil
}

// SaveSecurity upserts the estate's PIN settings.
func (r *Repository) SaveSecurity(ctx context.Context, sec models.Security) error {
	_, err := r.coll(collSettings).UpdateOne(ctx,
		bson.M{"_id": r.estate + ":security"},
		bson.M{"$set": bson.M{
			"estate":    r.estate,
			"admin_pin": sec.AdminPIN,
			"app_pin":   sec.AppPIN,
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save security settings: %w", err)
	}
	return nil
}

// SaveReportSnapshot persists a nightly aggregate document.
func (r *Repository) SaveReportSnapshot(ctx context.Context, snap models.ReportSnapshot) error {
	snap.ID = primitive.NewObjectID().Hex()
	snap.Estate = r.estate
	if _, err := r.coll(collSnapshots).InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("insert report snapshot: %w", err)
	}
	return nil
}
