package constants

// Closed set of vital-sign metrics. BMI is intentionally absent: it is
// computed on read from height+weight, never stored.
const (
	VitalHeight           = "height"
	VitalWeight           = "weight"
	VitalBloodPressure    = "blood_pressure"
	VitalHeartRate        = "heart_rate"
	VitalTemperature      = "temperature"
	VitalBloodGlucose     = "blood_glucose"
	VitalCholesterol      = "cholesterol"
	VitalOxygenSaturation = "oxygen_saturation"
)

var VitalTypes = map[string]struct{}{
	VitalHeight: {}, VitalWeight: {}, VitalBloodPressure: {},
	VitalHeartRate: {}, VitalTemperature: {}, VitalBloodGlucose: {},
	VitalCholesterol: {}, VitalOxygenSaturation: {},
}

func IsValidVitalType(t string) bool {
	_, ok := VitalTypes[t]
	return ok
}

// Medical report categories. Sub-types are free-form strings by design.
const (
	ReportLab          = "lab_report"
	ReportPrescription = "prescription_consultation"
	ReportVaccination  = "vaccination"
	ReportHospital     = "hospital_records"
)

var ReportTypes = map[string]struct{}{
	ReportLab: {}, ReportPrescription: {}, ReportVaccination: {}, ReportHospital: {},
}

func IsValidReportType(t string) bool {
	_, ok := ReportTypes[t]
	return ok
}
