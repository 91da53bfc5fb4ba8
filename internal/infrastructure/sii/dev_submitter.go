package sii

import (
	"context"

	"github.com/google/uuid"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/logger"
)

// DevSubmitter simula el envío en modo dev: no hay red y el TRACKID es ficticio.
type DevSubmitter struct {
	log *logger.Logger
}

// NewDevSubmitter crea el simulador.
func NewDevSubmitter(log *logger.Logger) *DevSubmitter {
	if log == nil {
		log = logger.Nop()
	}
	return &DevSubmitter{log: log.Component("sii-dev")}
}

// Submit devuelve MOCK-TRACK-<uuid>.
func (d *DevSubmitter) Submit(_ context.Context, signedDTE []byte, tipo int, _ string) (string, error) {
	trackID := "MOCK-TRACK-" + uuid.NewString()
	d.log.Info().Int("tipo", tipo).Int("bytes", len(signedDTE)).Str("track_id", trackID).
		Msg("[DEV] simulando envío al SII")
	return trackID, nil
}
