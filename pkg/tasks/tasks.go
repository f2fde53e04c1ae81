// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// MeetingProcessingTask represents the data structure for a meeting processing job.
// 一条任务驱动完整的处理流水线：转写 → 内容分析 → 语义索引。
type MeetingProcessingTask struct {
	MeetingID  uint   `json:"meeting_id"`
	ObjectName string `json:"object_name"`
	FileName   string `json:"file_name"`
	Title      string `json:"title"`
	OwnerID    uint   `json:"owner_id"`
}
