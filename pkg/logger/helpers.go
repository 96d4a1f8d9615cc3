package logger

// LogRequest logs HTTP request information
func LogRequest(method, url string, statusCode int, duration float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration,
	}

	if statusCode >= 200 && statusCode < 300 {
		GetLogger().DebugWithFields("HTTP request completed", fields)
	} else if statusCode >= 400 && statusCode < 500 {
		GetLogger().WarnWithFields("HTTP request client error", fields)
	} else if statusCode >= 500 {
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	}
}

// LogDelivery logs the outcome of a post delivery
func LogDelivery(accountName, postID, mediaType string, success bool, err error) {
	fields := map[string]interface{}{
		"account":    accountName,
		"post_id":    postID,
		"media_type": mediaType,
		"success":    success,
	}

	logger := GetLogger().WithFields(fields)

	if err != nil {
		logger.WithError(err).Error("Delivery failed")
	} else if success {
		logger.Info("Delivery completed")
	} else {
		logger.Warn("Delivery skipped")
	}
}

// LogPassSummary logs the result of one account's sync pass
func LogPassSummary(accountName string, fetched, fresh, delivered int) {
	GetLogger().WithFields(map[string]interface{}{
		"account":   accountName,
		"fetched":   fetched,
		"new":       fresh,
		"delivered": delivered,
	}).Info("Sync pass completed")
}

// LogRateLimit logs rate limiting events
func LogRateLimit(endpoint string, retryAfter int) {
	GetLogger().WithFields(map[string]interface{}{
		"endpoint":    endpoint,
		"retry_after": retryAfter,
		"action":      "rate_limited",
	}).Warn("Rate limit reached, backing off")
}
