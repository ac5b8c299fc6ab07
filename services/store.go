package services

import (
	"context"
	"errors"
	"fmt"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"manthokha-backend/metrics"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrInUse       = errors.New("record is still referenced")
	ErrConflict    = errors.New("record already exists")
	ErrForeignKey  = errors.New("referenced record does not exist")
	ErrUnavailable = errors.New("room is already booked for those dates")
)

// Eq is an equality filter on one column. A nil Value matches NULL.
type Eq struct {
	Column string
	Value  interface{}
}

type ListOptions struct {
	Filters []Eq
	OrderBy string
	Desc    bool
}

// Store is the generic table gateway shared by every entity service.
type Store[T any] struct {
	DB     *gorm.DB
	Entity string

	defaultOrder string
	defaultDesc  bool
}

func NewStore[T any](db *gorm.DB, entity, orderBy string, desc bool) *Store[T] {
	return &Store[T]{DB: db, Entity: entity, defaultOrder: orderBy, defaultDesc: desc}
}

func (s *Store[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	q := s.DB.WithContext(ctx).Model(new(T))
	for _, f := range opts.Filters {
		q = q.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}

	orderBy, desc := opts.OrderBy, opts.Desc
	if orderBy == "" {
		orderBy, desc = s.defaultOrder, s.defaultDesc
	}
	if orderBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: desc})
	}

	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, s.fail("list", err)
	}
	s.ok("list")
	return out, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := s.DB.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, s.fail("get", err)
	}
	s.ok("get")
	return &rec, nil
}

func (s *Store[T]) Insert(ctx context.Context, rec *T) error {
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return s.fail("insert", err)
	}
	s.ok("insert")
	return nil
}

// Update overwrites every mutable column of id with rec, then reloads rec
// so it carries the stored id and creation time.
func (s *Store[T]) Update(ctx context.Context, id string, rec *T) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.updateIn(tx, id, rec)
	})
	if err != nil {
		return s.fail("update", err)
	}
	s.ok("update")
	return nil
}

func (s *Store[T]) updateIn(tx *gorm.DB, id string, rec *T) error {
	var existing T
	if err := tx.First(&existing, "id = ?", id).Error; err != nil {
		return err
	}
	if r, ok := any(rec).(interface{ SetID(string) }); ok {
		r.SetID(id)
	}
	if err := tx.Model(&existing).Select("*").Omit("id", "created_at").Updates(rec).Error; err != nil {
		return err
	}
	return tx.First(rec, "id = ?", id).Error
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if err := s.deleteIn(s.DB.WithContext(ctx), id); err != nil {
		return s.fail("delete", err)
	}
	s.ok("delete")
	return nil
}

func (s *Store[T]) deleteIn(tx *gorm.DB, id string) error {
	res := tx.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store[T]) ok(op string) {
	metrics.ObserveStore(s.Entity, op, nil)
}

func (s *Store[T]) fail(op string, err error) error {
	metrics.ObserveStore(s.Entity, op, err)
	return fmt.Errorf("%s %s: %w", s.Entity, op, classify(err))
}

// classify maps driver and gorm errors onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInUse) ||
		errors.Is(err, ErrConflict) || errors.Is(err, ErrForeignKey) ||
		errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrForeignKey
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return fmt.Errorf("%w: %s", ErrConflict, me.Message)
		case 1451:
			return fmt.Errorf("%w: %s", ErrInUse, me.Message)
		case 1452:
			return fmt.Errorf("%w: %s", ErrForeignKey, me.Message)
		}
	}
	return err
}
