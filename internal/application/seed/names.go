package seed

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var firstNames = []string{
	"José", "María", "Andrés", "Sofía", "Camilo", "Valentina", "Julián", "Lucía",
	"Sebastián", "Mateo", "Isabella", "Tomás", "Daniela", "Nicolás", "Ángela",
	"Santiago", "Mariana", "Felipe", "Catalina", "Martín", "Paula", "Simón",
	"Laura", "Esteban", "Natalia", "Joaquín", "Verónica", "Iván", "Carolina", "Óscar",
}

var lastNames = []string{
	"Gómez", "Rodríguez", "Martínez", "López", "García", "Hernández", "Pérez",
	"Sánchez", "Ramírez", "Torres", "Díaz", "Vargas", "Castro", "Ruiz", "Muñoz",
	"De la Cruz", "Ortiz", "Jiménez", "Rojas", "Moreno", "Álvarez", "Suárez",
	"Quintero", "Peña", "Cárdenas", "Londoño", "Ospina", "Zuluaga", "Echeverri", "Nariño",
}

// Proveedores de correo con su peso relativo.
var emailProviders = []struct {
	domain string
	weight int
}{
	{"gmail.com", 100},
	{"outlook.com", 50},
	{"yahoo.com", 20},
	{"protonmail.com", 5},
	{"tutanota.com", 5},
}

const adminEmailDomain = "ocg.com"

// foldAccents quita los diacríticos: "Muñoz" -> "Munoz".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Username arma "inicial.apellido" en minúsculas, sin espacios ni acentos.
// Ej: ("Ángela", "De la Cruz") -> "a.delacruz".
func Username(first, last string) string {
	initial := ""
	for _, r := range first {
		initial = string(r)
		break
	}
	last = strings.ReplaceAll(last, " ", "")
	return strings.ToLower(foldAccents(initial + "." + last))
}

// robohashURL avatar determinista a partir del nombre completo.
func robohashURL(fullName string) string {
	return "https://robohash.org/" + strings.ToLower(strings.ReplaceAll(foldAccents(fullName), " ", ""))
}
