package employee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EmployeeCollection     = "employees"
	CompensationCollection = "compensations"
)

// CompensationIndexes back the one-compensation-per-employee rule in the database so
// concurrent creates cannot both succeed.
var CompensationIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "employeeId", Value: 1}},
		Options: options.Index().SetName("uniq_employeeId").SetUnique(true),
	},
}

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(CompensationCollection).Indexes().CreateMany(ctx, CompensationIndexes); err != nil {
		return fmt.Errorf("create compensation indexes: %w", err)
	}
	return nil
}

type employeeDocument struct {
	ID            string    `bson:"_id"`
	FirstName     string    `bson:"firstName"`
	LastName      string    `bson:"lastName"`
	Position      string    `bson:"position"`
	Department    string    `bson:"department"`
	DirectReports []string  `bson:"directReports,omitempty"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func toEmployeeDocument(emp Employee) employeeDocument {
	doc := employeeDocument{
		ID:         emp.ID,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Position:   emp.Position,
		Department: emp.Department,
		UpdatedAt:  time.Now().UTC(),
	}
	if len(emp.DirectReports) > 0 {
		doc.DirectReports = emp.ReportIDs()
	}
	return doc
}

func (d employeeDocument) toEmployee() Employee {
	emp := Employee{
		ID:         d.ID,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Position:   d.Position,
		Department: d.Department,
	}
	for _, id := range d.DirectReports {
		emp.DirectReports = append(emp.DirectReports, Ref{EmployeeID: id})
	}
	return emp
}

type compensationDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	EmployeeID    string               `bson:"employeeId"`
	Salary        primitive.Decimal128 `bson:"salary"`
	EffectiveDate string               `bson:"effectiveDate"`
	CreatedAt     time.Time            `bson:"createdAt"`
}

func (d compensationDocument) toCompensation() (Compensation, error) {
	salary, err := decimal.NewFromString(d.Salary.String())
	if err != nil {
		return Compensation{}, fmt.Errorf("decode salary: %w", err)
	}
	comp := Compensation{
		Employee: &Employee{ID: d.EmployeeID},
		Salary:   salary,
	}
	if d.EffectiveDate != "" {
		date, err := ParseDate(d.EffectiveDate)
		if err != nil {
			return Compensation{}, fmt.Errorf("decode effective date: %w", err)
		}
		comp.EffectiveDate = &date
	}
	return comp, nil
}

type MongoEmployees struct {
	coll *mongo.Collection
}

func NewMongoEmployees(db *mongo.Database) *MongoEmployees {
	return &MongoEmployees{coll: db.Collection(EmployeeCollection)}
}

func (s *MongoEmployees) Insert(ctx context.Context, emp Employee) (Employee, error) {
	if _, err := s.coll.InsertOne(ctx, toEmployeeDocument(emp)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Employee{}, ErrDuplicate
		}
		return Employee{}, fmt.Errorf("coll.InsertOne: %w", err)
	}
	return emp, nil
}

func (s *MongoEmployees) Save(ctx context.Context, emp Employee) (Employee, error) {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": emp.ID}, toEmployeeDocument(emp))
	if err != nil {
		return Employee{}, fmt.Errorf("coll.ReplaceOne: %w", err)
	}
	if res.MatchedCount == 0 {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (s *MongoEmployees) FindByID(ctx context.Context, id string) (Employee, error) {
	var doc employeeDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("coll.FindOne: %w", err)
	}
	return doc.toEmployee(), nil
}

func (s *MongoEmployees) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.D{})
}

type MongoCompensations struct {
	coll *mongo.Collection
}

func NewMongoCompensations(db *mongo.Database) *MongoCompensations {
	return &MongoCompensations{coll: db.Collection(CompensationCollection)}
}

func (s *MongoCompensations) Insert(ctx context.Context, comp Compensation) (Compensation, error) {
	salary, err := primitive.ParseDecimal128(comp.Salary.String())
	if err != nil {
		return Compensation{}, fmt.Errorf("encode salary: %w", err)
	}
	doc := compensationDocument{
		EmployeeID: comp.EmployeeID(),
		Salary:     salary,
		CreatedAt:  time.Now().UTC(),
	}
	if comp.EffectiveDate != nil {
		doc.EffectiveDate = comp.EffectiveDate.String()
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Compensation{}, ErrDuplicate
		}
		return Compensation{}, fmt.Errorf("coll.InsertOne: %w", err)
	}
	return doc.toCompensation()
}

func (s *MongoCompensations) FindByEmployee(ctx context.Context, employeeID string) (Compensation, error) {
	var doc compensationDocument
	err := s.coll.FindOne(ctx, bson.M{"employeeId": employeeID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Compensation{}, ErrNotFound
	}
	if err != nil {
		return Compensation{}, fmt.Errorf("coll.FindOne: %w", err)
	}
	return doc.toCompensation()
}
