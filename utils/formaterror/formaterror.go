package formaterror

import "strings"

// FormatError maps raw database error strings to user-facing field errors.
// Unique-constraint violations are reported as "taken"/"already" conflicts
// rather than surfaced as opaque server errors.
func FormatError(err string) map[string]string {

	errorMessages := make(map[string]string)

	if strings.Contains(err, "username") {
		errorMessages["Taken_username"] = "Username Already Taken"
	}
	if strings.Contains(err, "email") {
		errorMessages["Taken_email"] = "Email Already Taken"
	}
	if strings.Contains(err, "follower_id") || strings.Contains(err, "idx_follows_unique") {
		errorMessages["Double_follow"] = "Already following this user"
	}
	if strings.Contains(err, "idx_likes_unique") {
		errorMessages["Double_like"] = "Post already liked"
	}
	if strings.Contains(err, "hashedPassword") {
		errorMessages["Incorrect_password"] = "Incorrect Password"
	}
	if strings.Contains(err, "record not found") {
		errorMessages["No_record"] = "No Record Found"
	}

	if len(errorMessages) > 0 {
		return errorMessages
	}
	return map[string]string{"Incorrect_details": "Incorrect Details"}
}
