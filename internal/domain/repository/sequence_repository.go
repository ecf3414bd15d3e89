package repository

// SequenceRepository define el puerto del contador diario de códigos recibidos
// (tabla secuencia_codigo_recibido, una fila por código de material y fecha YYYYMMDD).
// Sustituye al escaneo leer-luego-escribir de códigos existentes, que era vulnerable
// a carreras entre altas concurrentes del mismo código y día.
type SequenceRepository interface {
	// Current devuelve el último secuencial emitido (found=false si no hay fila).
	Current(codigoMaterial, fecha string) (valor int, found bool, err error)
	// Seed crea la fila con un valor inicial si no existe (ON CONFLICT DO NOTHING).
	// Permite arrancar el contador desde datos previos a la tabla.
	Seed(codigoMaterial, fecha string, valor int) error
	// Next incrementa el contador de forma atómica y devuelve el nuevo valor.
	Next(codigoMaterial, fecha string) (int, error)
}
