// Package sii contiene catálogos y reglas del formato de Documentos Tributarios
// Electrónicos (DTE) del Servicio de Impuestos Internos de Chile.
package sii

// Tipos de documento soportados (TipoDTE).
const (
	DocTypeBoleta       = 39 // Boleta electrónica (afecta)
	DocTypeBoletaExenta = 41 // Boleta exenta electrónica
)

// SupportedDocTypes tipos de DTE que este backend puede emitir.
var SupportedDocTypes = map[int]bool{
	DocTypeBoleta:       true,
	DocTypeBoletaExenta: true,
}

// IsSupportedDocType indica si el tipo de DTE puede emitirse.
func IsSupportedDocType(docType int) bool {
	return SupportedDocTypes[docType]
}

// IsExemptDocType indica si todas las líneas del documento son exentas de IVA.
func IsExemptDocType(docType int) bool {
	return docType == DocTypeBoletaExenta
}

// Receptor genérico cuando la venta no identifica al comprador.
const (
	GenericReceiverRUT  = "66666666-6"
	GenericReceiverName = "CONSUMIDOR FINAL"
)

// RUTSII es el RUT del SII, receptor de todo envío de DTE (Caratula/RutReceptor).
const RUTSII = "60803000-K"

// IndServicio para boletas: 3 = ventas y servicios.
const IndServicioVentas = "3"

// Largos máximos de campos del timbre (TED/DD).
const (
	MaxTEDItemName     = 40
	MaxTEDReceiverName = 40
)

// Formatos de fecha usados en los documentos.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05"
)

// Identificadores fijos de nodos firmados.
const (
	TokenRequestID = "GT"
	EnvelopeID     = "ENV"
)
