package records

import "regexp"

// Protocolo de líneas etiquetadas, versión actual:
//
//	Diagnosis: <diagnóstico>
//	Clinic: <clínica>
//	<notas libres del usuario>
//
// El orden es fijo para que el decode sea determinista. Para agregar un
// campo a futuro se suma una línea nueva acá y su regex abajo; los
// records viejos siguen decodificando (campo ausente => Unknown).
//
// Límites conocidos y heredados del cliente original:
//   - un salto de línea dentro de diagnosis/clinic corrompe el decode
//     de la línea siguiente;
//   - un diagnosis/clinic vacío codifica una línea con la etiqueta
//     sola, que al decodificar cuenta como ausente => Unknown (el
//     round trip vale para valores no vacíos y sin saltos de línea).
const (
	diagnosisTag = "Diagnosis: "
	clinicTag    = "Clinic: "

	// Unknown es el placeholder explícito cuando una etiqueta no está
	// en el note (p.ej. un appointment que no escribió esta app).
	// Nunca devolvemos string vacío para estos campos.
	Unknown = "unknown"
)

var (
	diagnosisRe = regexp.MustCompile(diagnosisTag + `(.+?)(?:\n|$)`)
	clinicRe    = regexp.MustCompile(clinicTag + `(.+?)(?:\n|$)`)
)

// ToAppointment codifica el record como appointment wire: diagnosis y
// clinic se inyectan como líneas etiquetadas al frente de notes.
func ToAppointment(r MedicalRecord) Appointment {
	return Appointment{
		ID:         r.ID,
		PetID:      r.PetID,
		CustomerID: r.CustomerID,
		Date:       r.Date,
		Service:    r.Service,
		Notes:      encodeNotes(r.Diagnosis, r.Clinic, r.Notes),
	}
}

// FromAppointment decodifica un appointment wire. Mapping puro, sin I/O.
// Notes queda ENTERO tal cual vino, etiquetas incluidas: es lo que el
// cliente original mostraba al usuario.
func FromAppointment(a Appointment) MedicalRecord {
	return MedicalRecord{
		ID:         a.ID,
		PetID:      a.PetID,
		CustomerID: a.CustomerID,
		Date:       a.Date,
		Service:    a.Service,
		Diagnosis:  extract(diagnosisRe, a.Notes),
		Clinic:     extract(clinicRe, a.Notes),
		Notes:      a.Notes,
		PetName:    a.PetName,
		Owner:      a.CustomerName,
	}
}

func encodeNotes(diagnosis, clinic, notes string) string {
	return diagnosisTag + diagnosis + "\n" + clinicTag + clinic + "\n" + notes
}

func extract(re *regexp.Regexp, notes string) string {
	m := re.FindStringSubmatch(notes)
	if len(m) < 2 {
		return Unknown
	}
	return m[1]
}
