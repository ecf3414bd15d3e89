package almacen

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Formato del código de material recibido: CODIGO_MATERIAL,YYYYMMDD####
// donde #### es un secuencial diario de 4 dígitos por código de material.
// Ejemplos: OCH1223K678,202507080001 / OCH1223K678,202507080002

const fechaLayout = "20060102"

// BuildReceivedCode construye el código de material recibido para un código de
// material, una fecha y un secuencial diario.
func BuildReceivedCode(codigoMaterial string, fecha time.Time, secuencia int) string {
	return fmt.Sprintf("%s,%s%04d", codigoMaterial, fecha.Format(fechaLayout), secuencia)
}

// CodePrefix devuelve el prefijo CODIGO,YYYYMMDD común a todos los códigos del día,
// útil para búsquedas LIKE en la DB.
func CodePrefix(codigoMaterial string, fecha time.Time) string {
	return codigoMaterial + "," + fecha.Format(fechaLayout)
}

// sequencePattern compila el patrón exacto ^CODIGO,YYYYMMDD(\d{4})$ para una
// combinación código+fecha. El match es estricto: códigos con sufijos de otra
// longitud o fechas distintas no cuentan para el secuencial.
func sequencePattern(codigoMaterial string, fecha time.Time) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(codigoMaterial) + `,` + fecha.Format(fechaLayout) + `(\d{4})$`)
}

// MaxSequence recorre códigos recibidos existentes y devuelve el secuencial más
// alto encontrado para el código de material y la fecha dados (0 si ninguno
// coincide). Se usa para sembrar el contador atómico a partir de datos previos.
func MaxSequence(codigos []string, codigoMaterial string, fecha time.Time) int {
	pattern := sequencePattern(codigoMaterial, fecha)
	max := 0
	for _, c := range codigos {
		m := pattern.FindStringSubmatch(c)
		if m == nil {
			continue
		}
		seq, _ := strconv.Atoi(m[1]) // el regex garantiza 4 dígitos
		if seq > max {
			max = seq
		}
	}
	return max
}
