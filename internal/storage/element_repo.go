package storage

import (
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/keyframe-studio/keyframe/internal/errors"
	"github.com/keyframe-studio/keyframe/internal/model"
)

// ElementRepo stores stage elements. It satisfies command.Store: every call
// is its own transaction, so changes are visible immediately.
type ElementRepo struct {
	db *DB
}

// NewElementRepo creates a new element repository.
func NewElementRepo(db *DB) *ElementRepo {
	return &ElementRepo{db: db}
}

// Add stores a new element. It fails with errors.ErrElementExists if the ID
// is taken.
func (r *ElementRepo) Add(el *model.Element) error {
	el.Key = model.GenerateElementKey(el.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(el.Key)); err == nil {
			return errors.Wrapf(errors.ErrElementExists, "element %q", el.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return setTxn(txn, el)
	})
}

// Remove deletes the element with id and returns it.
func (r *ElementRepo) Remove(id string) (*model.Element, error) {
	el := &model.Element{}
	key := model.GenerateElementKey(id)
	err := r.db.Update(func(txn *badger.Txn) error {
		if err := getTxn(txn, key, el); err != nil {
			return r.notFound(id, err)
		}
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return nil, err
	}
	return el, nil
}

// Get retrieves the element with id.
func (r *ElementRepo) Get(id string) (*model.Element, error) {
	el := &model.Element{}
	if err := r.db.Get(model.GenerateElementKey(id), el); err != nil {
		return nil, r.notFound(id, err)
	}
	return el, nil
}

// Update overwrites an existing element.
func (r *ElementRepo) Update(el *model.Element) error {
	el.Key = model.GenerateElementKey(el.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(el.Key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return errors.Wrapf(errors.ErrElementNotFound, "element %q", el.ID)
			}
			return err
		}
		return setTxn(txn, el)
	})
}

// Exists reports whether an element with id is stored.
func (r *ElementRepo) Exists(id string) (bool, error) {
	return r.db.Exists(model.GenerateElementKey(id))
}

// List retrieves all elements ordered by ID.
func (r *ElementRepo) List() ([]*model.Element, error) {
	return GetAllByPrefix(r.db, model.PrefixElement+":", func() *model.Element {
		return &model.Element{}
	})
}

// ListByLayer retrieves all elements ordered by layer, then ID.
func (r *ElementRepo) ListByLayer() ([]*model.Element, error) {
	els, err := r.List()
	if err != nil {
		return nil, err
	}
	sortByLayer(els)
	return els, nil
}

// Count returns the number of stored elements.
func (r *ElementRepo) Count() (int, error) {
	keys, err := r.db.ListByPrefix(model.PrefixElement + ":")
	return len(keys), err
}

func (r *ElementRepo) notFound(id string, err error) error {
	if IsErrKeyNotFound(err) {
		return errors.Wrapf(errors.ErrElementNotFound, "element %q", id)
	}
	return err
}

// sortByLayer orders elements by layer, keeping ID order within a layer.
func sortByLayer(els []*model.Element) {
	sort.SliceStable(els, func(i, j int) bool {
		return els[i].Layer < els[j].Layer
	})
}
