package i18n

var messages = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":              "Invalid request",
		"error.validation_failed":        "Validation failed",
		"error.unauthorized":             "Unauthorized",
		"error.forbidden":                "You do not have permission to perform this action",
		"error.not_found":                "Resource not found",
		"error.internal":                 "Something went wrong, please try again",
		"error.auth_header_missing":      "Authorization header is missing",
		"error.auth_header_invalid":      "Authorization header must be Bearer <token>",
		"error.jwt_secret_missing":       "Token signing is not configured",
		"error.token_invalid":            "Invalid or expired token",
		"error.token_revoked":            "Token has been revoked, please sign in again",
		"error.user_disabled":            "This account has been disabled",
		"error.user_id_invalid":          "Invalid user id",
		"error.user_id_type_invalid":     "Invalid user id type",
		"error.admin_id_invalid":         "Invalid admin id",
		"error.admin_id_type_invalid":    "Invalid admin id type",
		"error.rate_limited":             "Too many requests, retry in %d seconds",
		"error.login_too_many":           "Too many login attempts, retry in %d seconds",
		"error.otp_too_many_requests":    "Too many OTP requests, retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter unavailable",
		"error.captcha_required":         "Captcha is required",
		"error.captcha_invalid":          "Captcha is incorrect",
		"error.captcha_generate_failed":  "Could not generate captcha",
		"error.mobile_invalid":           "Enter a valid 10 digit Indian mobile number",
		"error.email_invalid":            "Enter a valid email address",
		"error.otp_invalid":              "Incorrect OTP",
		"error.otp_expired":              "OTP expired or not requested",
		"error.otp_too_frequent":         "Please wait before requesting another OTP",
		"error.otp_attempts_exhausted":   "Too many wrong attempts, request a new OTP",
		"error.otp_deliver_failed":       "Could not send OTP, please try again",
		"error.invalid_credentials":      "Invalid username or password",
		"error.password_invalid":         "Password is incorrect or too weak",
		"error.user_not_found":           "User not found",
		"error.admin_not_found":          "Admin not found",
		"error.address_not_found":        "Address not found",
		"error.address_invalid":          "Address is incomplete or invalid",
		"error.product_not_found":        "Product not found",
		"error.variant_not_found":        "Product variant not found or unavailable",
		"error.product_invalid":          "Product details are invalid",
		"error.variant_invalid":          "Variant details are invalid",
		"error.stock_adjust_invalid":     "Stock adjustment is invalid",
		"error.insufficient_stock":       "Insufficient stock",
		"error.insufficient_stock_item":  "Only %d available for %s",
		"error.cart_empty":               "Your cart is empty",
		"error.cart_item_not_found":      "Cart item not found",
		"error.cart_item_not_owned":      "Cart item does not belong to your cart",
		"error.quantity_invalid":         "Quantity is invalid",
		"error.order_not_found":          "Order not found",
		"error.order_status_invalid":     "Order can not move to that status",
		"error.order_expired":            "Payment window for this order has expired",
		"error.order_cancel_not_allowed": "Order can not be cancelled after shipping",
		"error.payment_method_invalid":   "Unsupported payment method",
		"error.role_invalid":             "Role is invalid",
		"error.idempotency_conflict":     "Idempotency key was reused with a different request",
		"error.fetch_failed":             "Could not load data",
		"error.save_failed":              "Could not save changes",
		"error.cart_update_failed":       "Could not update cart",
		"error.order_create_failed":      "Could not place order",
		"error.order_update_failed":      "Could not update order",
		"error.payment_failed":           "Could not record payment",
		"error.authz_failed":             "Could not update permissions",
		"error.admin_username_invalid":   "Username must be 3-64 characters without spaces",
		"error.admin_username_exists":    "Username is already taken",
		"error.admin_delete_forbidden":   "This admin account can not be deleted",
		"error.user_status_invalid":      "User status must be active or disabled",
		"error.dashboard_range_invalid":  "Dashboard date range is invalid",
		"error.dashboard_fetch_failed":   "Could not load dashboard data",
	},
	LocaleHiIN: {
		"error.bad_request":              "अमान्य अनुरोध",
		"error.validation_failed":        "सत्यापन विफल रहा",
		"error.unauthorized":             "अनधिकृत",
		"error.forbidden":                "आपको यह कार्य करने की अनुमति नहीं है",
		"error.not_found":                "संसाधन नहीं मिला",
		"error.internal":                 "कुछ गलत हो गया, कृपया पुनः प्रयास करें",
		"error.auth_header_missing":      "Authorization हेडर नहीं मिला",
		"error.token_invalid":            "टोकन अमान्य या समाप्त हो गया है",
		"error.token_revoked":            "टोकन रद्द कर दिया गया है, कृपया फिर से साइन इन करें",
		"error.user_disabled":            "यह खाता निष्क्रिय कर दिया गया है",
		"error.rate_limited":             "बहुत अधिक अनुरोध, %d सेकंड बाद पुनः प्रयास करें",
		"error.login_too_many":           "बहुत अधिक लॉगिन प्रयास, %d सेकंड बाद पुनः प्रयास करें",
		"error.otp_too_many_requests":    "बहुत अधिक OTP अनुरोध, %d सेकंड बाद पुनः प्रयास करें",
		"error.captcha_required":         "कैप्चा आवश्यक है",
		"error.captcha_invalid":          "कैप्चा गलत है",
		"error.mobile_invalid":           "मान्य 10 अंकों का मोबाइल नंबर दर्ज करें",
		"error.email_invalid":            "मान्य ईमेल पता दर्ज करें",
		"error.otp_invalid":              "गलत OTP",
		"error.otp_expired":              "OTP समाप्त हो गया या अनुरोध नहीं किया गया",
		"error.otp_too_frequent":         "नया OTP माँगने से पहले कृपया प्रतीक्षा करें",
		"error.otp_attempts_exhausted":   "बहुत अधिक गलत प्रयास, नया OTP माँगें",
		"error.otp_deliver_failed":       "OTP नहीं भेजा जा सका, पुनः प्रयास करें",
		"error.address_not_found":        "पता नहीं मिला",
		"error.address_invalid":          "पता अधूरा या अमान्य है",
		"error.product_not_found":        "उत्पाद नहीं मिला",
		"error.variant_not_found":        "उत्पाद का प्रकार उपलब्ध नहीं है",
		"error.insufficient_stock":       "स्टॉक पर्याप्त नहीं है",
		"error.insufficient_stock_item":  "%[2]s के केवल %[1]d उपलब्ध हैं",
		"error.cart_empty":               "आपकी कार्ट खाली है",
		"error.cart_item_not_found":      "कार्ट आइटम नहीं मिला",
		"error.quantity_invalid":         "मात्रा अमान्य है",
		"error.order_not_found":          "ऑर्डर नहीं मिला",
		"error.order_status_invalid":     "ऑर्डर इस स्थिति में नहीं जा सकता",
		"error.order_expired":            "इस ऑर्डर की भुगतान अवधि समाप्त हो गई है",
		"error.order_cancel_not_allowed": "शिप होने के बाद ऑर्डर रद्द नहीं किया जा सकता",
		"error.payment_method_invalid":   "यह भुगतान विधि समर्थित नहीं है",
		"error.order_create_failed":      "ऑर्डर नहीं दिया जा सका",
	},
}
