// Copyright (c) 2026. The pwd-analyzer Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nbutton23/zxcvbn-go"

	"pwd-analyzer/internal/analyzer"
	"pwd-analyzer/internal/records"
)

type analyzeApi struct {
	analyzer *analyzer.Analyzer
}

func (q *analyzeApi) analyzePassword(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recs []records.Record
	if len(req.Record) > 0 {
		recs = []records.Record{req.Record}
	}

	analysis, err := q.analyzer.Analyze(c.Request.Context(), req.Password, recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entropy := zxcvbn.PasswordStrength(req.Password, nil)
	resp := analyzeResponse{
		Score:             analysis.Score,
		Bucket:            string(analysis.Bucket),
		EntropyBits:       analysis.EntropyBits,
		CrackTimesHours:   analysis.Estimate.Hours,
		CrackTimesDisplay: analysis.Display,
		Source:            analysis.Estimate.Source,
		Findings:          analysis.Findings,
		Zxcvbn: &passwordStrength{
			CrackTime:        entropy.CrackTime,
			CrackTimeDisplay: entropy.CrackTimeDisplay,
			Score:            entropy.Score,
		},
	}

	c.JSON(http.StatusOK, resp)
}

func (q *analyzeApi) analyzeBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recs := make([]records.Record, len(req.Records))
	for i, m := range req.Records {
		recs[i] = m
	}

	result, err := q.analyzer.RunBatch(c.Request.Context(), req.Passwords, recs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := batchResponse{
		Items:        make([]batchItem, len(result.Items)),
		Buckets:      make(map[string]int, len(result.Buckets)),
		WeakestFirst: result.WeakestFirst,
	}
	for i, item := range result.Items {
		out := batchItem{
			Password:        item.Password,
			Score:           item.Score,
			Bucket:          string(item.Bucket),
			CrackTimesHours: item.Estimate.Hours,
			Findings:        item.Findings,
		}
		if item.Err != nil {
			out.Error = item.Err.Error()
		}
		resp.Items[i] = out
	}
	for bucket, count := range result.Buckets {
		resp.Buckets[string(bucket)] = count
	}

	c.JSON(http.StatusOK, resp)
}

func RegisterAnalyzeApi(group *gin.RouterGroup, a *analyzer.Analyzer) {
	q := &analyzeApi{analyzer: a}

	group.POST("/password", q.analyzePassword)
	group.POST("/batch", q.analyzeBatch)
}
