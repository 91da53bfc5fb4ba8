package sii

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
)

// XMLDeclaration cabecera obligatoria de todo XML intercambiado con el SII.
const XMLDeclaration = `<?xml version="1.0" encoding="ISO-8859-1"?>`

// ReadDocument parsea XML en ISO-8859-1 (o UTF-8 sin declaración).
func ReadDocument(b []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("documento XML sin raíz")
	}
	return doc, nil
}

// WriteDocument serializa la raíz del documento en ISO-8859-1 con la declaración XML.
// La salida es compacta y con escape canónico, de modo que re-serializar no altera
// los bytes firmados.
func WriteDocument(doc *etree.Document) ([]byte, error) {
	return WriteElement(doc.Root())
}

// WriteElement serializa un elemento como documento independiente.
func WriteElement(el *etree.Element) ([]byte, error) {
	if el == nil {
		return nil, fmt.Errorf("documento XML sin raíz")
	}
	s, err := ElementString(el)
	if err != nil {
		return nil, err
	}
	return EncodeLatin1(XMLDeclaration + s)
}

// ElementString serializa un elemento (sin declaración) como texto Unicode.
func ElementString(el *etree.Element) (string, error) {
	out := etree.NewDocument()
	out.WriteSettings = writeSettings()
	out.SetRoot(el.Copy())
	return out.WriteToString()
}

func writeSettings() etree.WriteSettings {
	return etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
}

// EncodeLatin1 convierte texto a bytes ISO-8859-1. Falla si hay caracteres fuera del juego.
func EncodeLatin1(s string) ([]byte, error) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("codificar ISO-8859-1: %w", err)
	}
	return b, nil
}

// DecodeLatin1 convierte bytes ISO-8859-1 a texto Unicode.
func DecodeLatin1(b []byte) (string, error) {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// Latin1Safe reemplaza por '?' las runas que no existen en ISO-8859-1 y elimina
// los caracteres de control no válidos en XML 1.0.
func Latin1Safe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r < 0x20:
		case r > 0xFF:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1", "l1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	case "utf-8", "utf8":
		return input, nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", label)
}
