// Package repository 提供测量结果的时序存储
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"wisefido-camera-vitals/internal/models"

	"go.uber.org/zap"
)

// VitalsRecord vitals_timeseries 表的一行
type VitalsRecord struct {
	ID              int64
	SessionID       string
	CameraID        string
	Timestamp       time.Time
	HeartRate       *int
	SpO2            *int
	RespiratoryRate *int
	Systolic        *int
	Diastolic       *int
	StressLevel     *int
	HRV             *int
	OverallQuality  int
	FaceDetected    bool
}

// VitalsRepository 测量结果时序数据仓库
type VitalsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVitalsRepository 创建测量结果仓库
func NewVitalsRepository(db *sql.DB, logger *zap.Logger) *VitalsRepository {
	return &VitalsRepository{
		db:     db,
		logger: logger,
	}
}

// InsertReading 写入一条测量结果
//
// 每个测量 tick 最多写入一条；reading 的 nil 字段写为 NULL。
func (r *VitalsRepository) InsertReading(
	sessionID, cameraID string,
	reading *models.VitalsReading,
	quality *models.SignalQuality,
) error {
	query := `
		INSERT INTO vitals_timeseries (
			session_id,
			camera_id,
			timestamp,
			heart_rate,
			spo2,
			respiratory_rate,
			systolic,
			diastolic,
			stress_level,
			hrv,
			overall_quality,
			face_detected
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var systolic, diastolic *int
	if reading.BloodPressure != nil {
		systolic = &reading.BloodPressure.Systolic
		diastolic = &reading.BloodPressure.Diastolic
	}

	overall := 0
	faceDetected := false
	if quality != nil {
		overall = quality.Overall
		faceDetected = quality.FaceDetected
	}

	_, err := r.db.Exec(query,
		sessionID,
		cameraID,
		time.Unix(reading.Timestamp, 0).UTC(),
		nullableInt(reading.HeartRate),
		nullableInt(reading.SpO2),
		nullableInt(reading.RespiratoryRate),
		nullableInt(systolic),
		nullableInt(diastolic),
		nullableInt(reading.StressLevel),
		nullableInt(reading.HRV),
		overall,
		faceDetected,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vitals reading: %w", err)
	}

	return nil
}

// GetLatestBySessionID 获取会话最新的测量记录
//
// 参数:
//   - sessionID: 会话 ID
//   - limit: 返回记录数限制
func (r *VitalsRepository) GetLatestBySessionID(sessionID string, limit int) ([]*VitalsRecord, error) {
	query := `
		SELECT
			id,
			session_id,
			camera_id,
			timestamp,
			heart_rate,
			spo2,
			respiratory_rate,
			systolic,
			diastolic,
			stress_level,
			hrv,
			overall_quality,
			face_detected
		FROM vitals_timeseries
		WHERE session_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query vitals_timeseries: %w", err)
	}
	defer rows.Close()

	return scanVitalsRows(rows)
}

// GetRangeBySessionID 获取会话在时间区间内的测量记录（升序）
func (r *VitalsRepository) GetRangeBySessionID(sessionID string, from, to time.Time) ([]*VitalsRecord, error) {
	query := `
		SELECT
			id,
			session_id,
			camera_id,
			timestamp,
			heart_rate,
			spo2,
			respiratory_rate,
			systolic,
			diastolic,
			stress_level,
			hrv,
			overall_quality,
			face_detected
		FROM vitals_timeseries
		WHERE session_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC
	`

	rows, err := r.db.Query(query, sessionID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query vitals_timeseries: %w", err)
	}
	defer rows.Close()

	return scanVitalsRows(rows)
}

func scanVitalsRows(rows *sql.Rows) ([]*VitalsRecord, error) {
	var results []*VitalsRecord
	for rows.Next() {
		record := &VitalsRecord{}
		var heartRate, spO2, respiratoryRate sql.NullInt64
		var systolic, diastolic sql.NullInt64
		var stressLevel, hrv sql.NullInt64

		err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.CameraID,
			&record.Timestamp,
			&heartRate,
			&spO2,
			&respiratoryRate,
			&systolic,
			&diastolic,
			&stressLevel,
			&hrv,
			&record.OverallQuality,
			&record.FaceDetected,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record.HeartRate = nullInt64ToPtr(heartRate)
		record.SpO2 = nullInt64ToPtr(spO2)
		record.RespiratoryRate = nullInt64ToPtr(respiratoryRate)
		record.Systolic = nullInt64ToPtr(systolic)
		record.Diastolic = nullInt64ToPtr(diastolic)
		record.StressLevel = nullInt64ToPtr(stressLevel)
		record.HRV = nullInt64ToPtr(hrv)

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return results, nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt64ToPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
