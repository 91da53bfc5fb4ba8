package sii

import (
	"context"
	"fmt"
	"os"
	"strings"

	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
)

// FileCAFStore lee el CAF de cada tipo desde disco en cada llamada; el archivo se
// reemplaza fuera de banda cuando el SII autoriza un rango nuevo.
type FileCAFStore struct {
	paths map[int]string
}

// NewFileCAFStore construye el store con la ruta del CAF por tipo de documento.
func NewFileCAFStore(paths map[int]string) *FileCAFStore {
	cp := make(map[int]string, len(paths))
	for k, v := range paths {
		cp[k] = v
	}
	return &FileCAFStore{paths: cp}
}

// Get carga y valida el CAF del tipo.
func (s *FileCAFStore) Get(_ context.Context, tipo int) (*CAF, error) {
	path := strings.TrimSpace(s.paths[tipo])
	if path == "" {
		return nil, fmt.Errorf("%w: no hay CAF configurado para el tipo %d", domainsii.ErrCafStamp, tipo)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: leer CAF %s: %v", domainsii.ErrCafStamp, path, err)
	}
	caf, err := ParseCAF(data)
	if err != nil {
		return nil, err
	}
	if caf.Tipo != tipo {
		return nil, fmt.Errorf("%w: el CAF %s es del tipo %d, no %d", domainsii.ErrCafStamp, path, caf.Tipo, tipo)
	}
	return caf, nil
}
