package repository

import (
	"gorm.io/gorm"
	"meetmind-go/internal/model"
)

// ChunkRepository 定义了对 meeting_chunks 表的数据操作接口。
type ChunkRepository interface {
	ReplaceMeetingChunks(meetingID uint, chunks []*model.MeetingChunk) error
	FindByMeetingID(meetingID uint) ([]model.MeetingChunk, error)
	DeleteByMeetingID(meetingID uint) error
	LoadCorpus() ([]model.MeetingChunk, error)
	LoadCorpusForOwner(ownerID uint) ([]model.MeetingChunk, error)
	CountByMeeting() (map[uint]int64, error)
}

type chunkRepository struct {
	db *gorm.DB
}

// NewChunkRepository 创建一个新的 ChunkRepository 实例。
func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &chunkRepository{db: db}
}

// ReplaceMeetingChunks 在单个事务中用新的分块集合替换某次会议的全部分块。
// 事务保证检索语料中不会出现"旧块已删、新块未插"的中间状态。
func (r *chunkRepository) ReplaceMeetingChunks(meetingID uint, chunks []*model.MeetingChunk) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).Delete(&model.MeetingChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return tx.CreateInBatches(chunks, 100).Error // 每100条记录一批
	})
}

// FindByMeetingID 查找某次会议的全部分块记录。
func (r *chunkRepository) FindByMeetingID(meetingID uint) ([]model.MeetingChunk, error) {
	var chunks []model.MeetingChunk
	err := r.db.Where("meeting_id = ?", meetingID).
		Order("chunk_type, chunk_index").
		Find(&chunks).Error
	return chunks, err
}

// DeleteByMeetingID 删除某次会议的全部分块记录。
func (r *chunkRepository) DeleteByMeetingID(meetingID uint) error {
	return r.db.Where("meeting_id = ?", meetingID).Delete(&model.MeetingChunk{}).Error
}

// LoadCorpus 加载检索语料：所有状态为 analyzed 的会议的分块。
// 处理中或失败的会议不会进入语料。
func (r *chunkRepository) LoadCorpus() ([]model.MeetingChunk, error) {
	var chunks []model.MeetingChunk
	err := r.db.
		Joins("JOIN meetings ON meetings.id = meeting_chunks.meeting_id").
		Where("meetings.status = ?", model.MeetingStatusAnalyzed).
		Order("meeting_chunks.meeting_id, meeting_chunks.chunk_type, meeting_chunks.chunk_index").
		Find(&chunks).Error
	return chunks, err
}

// LoadCorpusForOwner 加载某个用户的检索语料，仅包含其状态为 analyzed 的会议。
func (r *chunkRepository) LoadCorpusForOwner(ownerID uint) ([]model.MeetingChunk, error) {
	var chunks []model.MeetingChunk
	err := r.db.
		Joins("JOIN meetings ON meetings.id = meeting_chunks.meeting_id").
		Where("meetings.status = ? AND meetings.owner_id = ?", model.MeetingStatusAnalyzed, ownerID).
		Order("meeting_chunks.meeting_id, meeting_chunks.chunk_type, meeting_chunks.chunk_index").
		Find(&chunks).Error
	return chunks, err
}

// CountByMeeting 统计每次会议的分块数量。
func (r *chunkRepository) CountByMeeting() (map[uint]int64, error) {
	type row struct {
		MeetingID uint
		Total     int64
	}
	var rows []row
	err := r.db.Model(&model.MeetingChunk{}).
		Select("meeting_id, COUNT(*) AS total").
		Group("meeting_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, rr := range rows {
		counts[rr.MeetingID] = rr.Total
	}
	return counts, nil
}
