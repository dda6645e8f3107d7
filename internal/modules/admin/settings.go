package admin

// DefaultSettings are merged under the stored settings document.
func DefaultSettings() map[string]any {
	return map[string]any{
		"siteName":           "TxunaJob",
		"siteDescription":    "Professional services platform in Mozambique",
		"adminEmail":         "admin@txunajob.com",
		"commissionRate":     15,
		"maxServices":        10,
		"autoApprove":        false,
		"passwordMinLength":  8,
		"maxLoginAttempts":   5,
		"sessionTimeout":     120,
		"emailNotifications": true,
		"pushNotifications":  true,
		"smsNotifications":   false,
		"maintenanceMode":    false,
		"maintenanceMessage": "System under maintenance. Please come back soon!",
	}
}

func merge(base map[string]any, overlays ...map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, o := range overlays {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}
