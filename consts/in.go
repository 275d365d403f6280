package consts

import (
	"fmt"
	"strings"
)

// InStates are the canonical English names of Indian states and union territories.
var InStates = []string{
	"Andaman and Nicobar Islands", "Andhra Pradesh", "Arunachal Pradesh", "Assam",
	"Bihar", "Chandigarh", "Chhattisgarh", "Dadra and Nagar Haveli and Daman and Diu",
	"Delhi", "Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jammu and Kashmir",
	"Jharkhand", "Karnataka", "Kerala", "Ladakh", "Lakshadweep", "Madhya Pradesh",
	"Maharashtra", "Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha",
	"Puducherry", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu", "Telangana",
	"Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
}

var inStateAliases map[string]string

func init() {
	inStateAliases = make(map[string]string)

	for _, s := range InStates {
		inStateAliases[strings.ToLower(s)] = s
	}

	// older names still found in boundary layers
	inStateAliases["orissa"] = "Odisha"
	inStateAliases["uttaranchal"] = "Uttarakhand"
	inStateAliases["pondicherry"] = "Puducherry"
	inStateAliases["nct of delhi"] = "Delhi"
	inStateAliases["jammu & kashmir"] = "Jammu and Kashmir"
	inStateAliases["andaman & nicobar island"] = "Andaman and Nicobar Islands"
	inStateAliases["andaman & nicobar islands"] = "Andaman and Nicobar Islands"
	inStateAliases["dadra & nagar haveli"] = "Dadra and Nagar Haveli and Daman and Diu"
	inStateAliases["dadra and nagar haveli"] = "Dadra and Nagar Haveli and Daman and Diu"
	inStateAliases["daman & diu"] = "Dadra and Nagar Haveli and Daman and Diu"
	inStateAliases["daman and diu"] = "Dadra and Nagar Haveli and Daman and Diu"

	// Hindi names
	inStateAliases["मध्य प्रदेश"] = "Madhya Pradesh"
	inStateAliases["उत्तर प्रदेश"] = "Uttar Pradesh"
	inStateAliases["राजस्थान"] = "Rajasthan"
	inStateAliases["महाराष्ट्र"] = "Maharashtra"
	inStateAliases["बिहार"] = "Bihar"
	inStateAliases["गुजरात"] = "Gujarat"
	inStateAliases["कर्नाटक"] = "Karnataka"
	inStateAliases["छत्तीसगढ़"] = "Chhattisgarh"
	inStateAliases["झारखंड"] = "Jharkhand"
	inStateAliases["हरियाणा"] = "Haryana"
	inStateAliases["पंजाब"] = "Punjab"
	inStateAliases["तेलंगाना"] = "Telangana"
	inStateAliases["आंध्र प्रदेश"] = "Andhra Pradesh"
	inStateAliases["तमिलनाडु"] = "Tamil Nadu"
	inStateAliases["ओडिशा"] = "Odisha"
	inStateAliases["पश्चिम बंगाल"] = "West Bengal"
	inStateAliases["उत्तराखंड"] = "Uttarakhand"
	inStateAliases["दिल्ली"] = "Delhi"
}

// InStateName - resolve a state name in any case, legacy spelling or Hindi
func InStateName(state string) (string, error) {
	key := strings.ToLower(strings.Join(strings.Fields(state), " "))
	if name, ok := inStateAliases[key]; !ok {
		return "", fmt.Errorf("%s not exist", state)
	} else {
		return name, nil
	}
}

// InStateKey - convert a state name into key
func InStateKey(state string) (string, error) {
	name, err := InStateName(state)
	if err != nil {
		return "", err
	}
	return strings.Replace(strings.ToLower(name), " ", "_", -1), nil
}
