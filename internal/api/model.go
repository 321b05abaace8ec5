package api

import "pwd-analyzer/internal/pii"

type analyzeRequest struct {
	Password string `json:"password" binding:"required"`
	// Optional personal record to match the password against.
	Record map[string]string `json:"record,omitempty"`
}

type batchRequest struct {
	Passwords []string `json:"passwords" binding:"required"`
	// Optional records, index-aligned with passwords.
	Records []map[string]string `json:"records,omitempty"`
}

// passwordStrength is the zxcvbn cross-check carried alongside the model
// score.
type passwordStrength struct {
	CrackTime        float64 `json:"crack_time"`
	CrackTimeDisplay string  `json:"crack_time_display"`
	Score            int     `json:"score"`
}

type analyzeResponse struct {
	Score             float64            `json:"score"`
	Bucket            string             `json:"bucket"`
	EntropyBits       float64            `json:"entropy_bits"`
	CrackTimesHours   map[string]float64 `json:"crack_times_hours"`
	CrackTimesDisplay map[string]string  `json:"crack_times_display"`
	Source            string             `json:"source"`
	Findings          []pii.Finding      `json:"findings,omitempty"`
	Zxcvbn            *passwordStrength  `json:"zxcvbn,omitempty"`
}

type batchItem struct {
	Password        string             `json:"password"`
	Score           float64            `json:"score"`
	Bucket          string             `json:"bucket"`
	CrackTimesHours map[string]float64 `json:"crack_times_hours"`
	Findings        []pii.Finding      `json:"findings,omitempty"`
	Error           string             `json:"error,omitempty"`
}

type batchResponse struct {
	Items        []batchItem    `json:"items"`
	Buckets      map[string]int `json:"buckets"`
	WeakestFirst []int          `json:"weakest_first"`
}
