package constants

const (
	GenderMale           = "male"
	GenderFemale         = "female"
	GenderOther          = "other"
	GenderPreferNotToSay = "prefer_not_to_say"
)

var Genders = map[string]struct{}{
	GenderMale: {}, GenderFemale: {}, GenderOther: {}, GenderPreferNotToSay: {},
}

func IsValidGender(g string) bool {
	_, ok := Genders[g]
	return ok
}

var BloodGroups = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {},
	"AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

func IsValidBloodGroup(b string) bool {
	_, ok := BloodGroups[b]
	return ok
}
