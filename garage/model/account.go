// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

// Preferences are optional parking-space constraints. A nil field means
// the preference is not set.
type Preferences struct {
	Accessibility *bool `json:"accessibility,omitempty"`
	ECharging     *bool `json:"eCharging,omitempty"`
}

// AccountData is one account record. Owned and mutated only by the
// account directory; read-only to every other component.
type AccountData struct {
	AccountID     string      `json:"accountID"`
	BillingInfo   string      `json:"billingInfo"`
	LicensePlates []string    `json:"licensePlates"`
	Preferences   Preferences `json:"preferences"`
}

// HasPlate reports whether the account registers the given license plate.
func (a *AccountData) HasPlate(plate string) bool {
	for _, p := range a.LicensePlates {
		if p == plate {
			return true
		}
	}
	return false
}

// EffectiveConstraints merges request-level constraints with account
// preferences: a request-level value overrides the preference only when
// explicitly set, otherwise the account preference is the default.
func EffectiveConstraints(prefs Preferences, requested Preferences) (accessibility, eCharging bool) {
	accessibility = boolValue(prefs.Accessibility)
	if requested.Accessibility != nil {
		accessibility = *requested.Accessibility
	}
	eCharging = boolValue(prefs.ECharging)
	if requested.ECharging != nil {
		eCharging = *requested.ECharging
	}
	return accessibility, eCharging
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
