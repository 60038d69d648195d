// Package render projects a prescription draft into its two read
// models: the on-screen preview and the standalone printable document.
// Both consume the same draft snapshot; sections with empty backing
// text are omitted entirely rather than rendered as empty headers.
package render

// ClinicProfile is the static doctor/clinic identity stamped verbatim
// onto previews and printed prescriptions.
type ClinicProfile struct {
	DoctorName         string `json:"doctorName"`
	Credentials        string `json:"credentials"`
	RegistrationNumber string `json:"registrationNumber"`
	ClinicName         string `json:"clinicName"`
	ClinicAddress      string `json:"clinicAddress"`
	ClinicPhone        string `json:"clinicPhone"`
	ClinicEmail        string `json:"clinicEmail"`
}
