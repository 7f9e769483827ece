package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics descompone a NFD, elimina las marcas diacríticas y recompone.
var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NameKey normaliza un nombre de artículo para búsqueda difusa (servicio de dominio):
// minúsculas, sin tildes y con espacios colapsados. "Câble électrique  3G" y
// "cable electrico 3g" producen la misma clave, lo que permite resolver líneas
// que solo traen el nombre tecleado por el usuario.
func NameKey(s string) string {
	out, _, err := transform.String(removeDiacritics, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
