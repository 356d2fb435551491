// Package registry resolves cédula numbers to citizen records.
//
// This is a stand-in for the padrón electoral. Records are derived
// deterministically from the cédula digits so the same number always
// yields the same citizen, which keeps the sandbox reproducible.
package registry

import (
	"errors"
	"fmt"
	"hash/fnv"
)

// ErrNotFound is returned when a cédula has no record in the padrón
var ErrNotFound = errors.New("cedula not found in registry")

// Record is the citizen data attached to a cédula
type Record struct {
	Nombres         string `json:"nombres"`
	Apellidos       string `json:"apellidos"`
	FechaNacimiento string `json:"fechaNacimiento"`
	LugarNacimiento string `json:"lugarNacimiento"`
	EstadoCivil     string `json:"estadoCivil"`
	Ocupacion       string `json:"ocupacion"`
	Nacionalidad    string `json:"nacionalidad"`
	Sexo            string `json:"sexo"`
}

var firstNames = []string{
	"Juan", "María", "José", "Ana", "Pedro", "Carmen", "Luis", "Rosa",
	"Rafael", "Altagracia", "Francisco", "Mercedes", "Ramón", "Juana",
	"Miguel", "Yolanda",
}

var middleNames = []string{
	"Alberto", "Isabel", "Antonio", "del Carmen", "Manuel", "Esperanza",
	"Enrique", "Milagros",
}

var lastNames = []string{
	"Pérez", "Rodríguez", "Martínez", "García", "Fernández", "Sánchez",
	"Díaz", "Reyes", "Jiménez", "Hernández", "Núñez", "Castillo",
	"Rosario", "Santana", "Vargas", "Peña",
}

var birthPlaces = []string{
	"Santo Domingo", "Santiago", "La Vega", "San Cristóbal",
	"San Pedro de Macorís", "Puerto Plata", "Barahona", "Higüey",
}

var civilStates = []string{"Soltero/a", "Casado/a", "Unión libre", "Divorciado/a"}

var occupations = []string{
	"Comerciante", "Estudiante", "Profesor/a", "Ingeniero/a",
	"Médico/a", "Agricultor/a", "Contador/a", "Empleado/a privado/a",
}

// Lookup returns the citizen record for an 11-digit cédula. Roughly one in
// seven numbers has no record.
func Lookup(cedula string) (*Record, error) {
	if len(cedula) != 11 {
		return nil, fmt.Errorf("invalid cedula length: %d", len(cedula))
	}

	h := fnv.New64a()
	h.Write([]byte(cedula))
	seed := h.Sum64()

	if seed%7 == 0 {
		return nil, ErrNotFound
	}

	pick := func(options []string, shift uint) string {
		return options[(seed>>shift)%uint64(len(options))]
	}

	sexo := "M"
	if seed%2 == 0 {
		sexo = "F"
	}

	year := 1940 + int((seed>>4)%66)
	month := 1 + int((seed>>11)%12)
	day := 1 + int((seed>>16)%28)

	return &Record{
		Nombres:         pick(firstNames, 8) + " " + pick(middleNames, 13),
		Apellidos:       pick(lastNames, 20) + " " + pick(lastNames, 27),
		FechaNacimiento: fmt.Sprintf("%04d-%02d-%02d", year, month, day),
		LugarNacimiento: pick(birthPlaces, 34),
		EstadoCivil:     pick(civilStates, 39),
		Ocupacion:       pick(occupations, 44),
		Nacionalidad:    "Dominicana",
		Sexo:            sexo,
	}, nil
}
