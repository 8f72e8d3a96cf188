package types

// StatsFilesSummary 文件总体统计（当前用户）.
type StatsFilesSummary struct {
	TotalFiles       int   `json:"total_files"`
	ActiveFiles      int   `json:"active_files"`
	DeletedFiles     int   `json:"deleted_files"`
	QuarantinedFiles int   `json:"quarantined_files"`
	TotalSize        int64 `json:"total_size"`
	ActiveSize       int64 `json:"active_size"`
}

// StatsTypeItem 按内容类型聚合.
type StatsTypeItem struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Size  int64  `json:"size"`
}

// QuotaStatus 当前用户的配额窗口状态.
type QuotaStatus struct {
	Used              int   `json:"used"`
	Limit             int   `json:"limit"`
	WindowSeconds     int   `json:"window_seconds"`
	ResetAfterSeconds int64 `json:"reset_after_seconds"`
}
