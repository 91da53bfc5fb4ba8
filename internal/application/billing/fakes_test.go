package billing

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/repository"
	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
	infrasii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii"
)

// memDTEStore repositorio en memoria con las mismas reglas de unicidad que la tabla.
type memDTEStore struct {
	mu   sync.Mutex
	docs []*entity.DTEDocument
	// beforeCreate simula una emisión concurrente que confirma antes que nosotros.
	beforeCreate func(s *memDTEStore, d *entity.DTEDocument)
}

var _ repository.DTERepository = (*memDTEStore)(nil)

func (s *memDTEStore) insert(d *entity.DTEDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.docs {
		if e.OrderID == d.OrderID {
			return fmt.Errorf("%w: order_id %s", domain.ErrConflict, d.OrderID)
		}
		if e.Tipo == d.Tipo && e.Folio == d.Folio {
			return fmt.Errorf("%w: (%d, %d)", domainsii.ErrFolioCollision, d.Tipo, d.Folio)
		}
	}
	cp := *d
	s.docs = append(s.docs, &cp)
	return nil
}

func (s *memDTEStore) Create(_ context.Context, d *entity.DTEDocument) error {
	if s.beforeCreate != nil {
		s.beforeCreate(s, d)
	}
	if d.ID == "" {
		d.ID = fmt.Sprintf("id-%d-%d", d.Tipo, d.Folio)
	}
	return s.insert(d)
}

func (s *memDTEStore) GetByOrderID(_ context.Context, orderID string) (*entity.DTEDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.docs {
		if e.OrderID == orderID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memDTEStore) GetByTipoFolio(_ context.Context, tipo int, folio int64) (*entity.DTEDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.docs {
		if e.Tipo == tipo && e.Folio == folio {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memDTEStore) ListUsedFolios(_ context.Context, tipo int, start, end int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int64
	for _, e := range s.docs {
		if e.Tipo == tipo && e.Folio >= start && e.Folio <= end {
			out = append(out, e.Folio)
		}
	}
	return out, nil
}

func (s *memDTEStore) List(_ context.Context, tipo, limit, offset int) ([]*entity.DTEDocument, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var match []*entity.DTEDocument
	for i := len(s.docs) - 1; i >= 0; i-- {
		if tipo == 0 || s.docs[i].Tipo == tipo {
			match = append(match, s.docs[i])
		}
	}
	total := len(match)
	if offset >= total {
		return nil, total, nil
	}
	return match[offset:min(offset+limit, total)], total, nil
}

func (s *memDTEStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// memTxRunner no tiene rollback real: Create es el último paso de la secuencia.
type memTxRunner struct {
	store *memDTEStore
	runs  int
}

func (r *memTxRunner) RunDTE(_ context.Context, fn func(repository.DTERepository) error) error {
	r.runs++
	return fn(r.store)
}

type memOrders map[string]*entity.Order

func (m memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return m[id], nil
}

type fixedCAF struct {
	caf *infrasii.CAF
	err error
}

func (f fixedCAF) Get(context.Context, int) (*infrasii.CAF, error) { return f.caf, f.err }

type recordingStamper struct{ calls int }

func (s *recordingStamper) Stamp(doc *infrasii.Document, caf *infrasii.CAF) error {
	s.calls++
	if !caf.Contains(doc.Folio) {
		return domainsii.ErrCafStamp
	}
	doc.Documento().CreateElement("TED")
	return nil
}

type fakeSigner struct{ calls int }

func (s *fakeSigner) Sign(xml []byte, id string, _ tls.Certificate) ([]byte, error) {
	s.calls++
	return append(append([]byte{}, xml...), []byte("<!--firmado "+id+"-->")...), nil
}

type countingTokens struct {
	calls int
	err   error
}

func (t *countingTokens) Token(context.Context) (string, error) {
	t.calls++
	return "TKN", t.err
}

type countingSubmitter struct {
	calls int
	err   error
}

func (s *countingSubmitter) Submit(_ context.Context, signed []byte, tipo int, token string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if token != "TKN" || len(signed) == 0 {
		return "", errors.New("envío inválido")
	}
	return fmt.Sprintf("TRACK-%d", s.calls), nil
}

func perfumeOrder(id string) *entity.Order {
	return &entity.Order{
		ID:        id,
		CreatedAt: time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC),
		Items: []entity.OrderItem{
			{Name: "Perfume A", Quantity: 2, UnitPrice: decimal.NewFromInt(9999)},
		},
	}
}

func testIssuer() infrasii.Issuer {
	return infrasii.Issuer{
		RUT:      "76123456-0",
		Name:     "Perfumería Ñuñoa SpA",
		Activity: "Venta de perfumes",
		Address:  "Av. Irarrázaval 1234",
		Commune:  "Ñuñoa",
	}
}
