package repositories

// Table names, shared with the realtime bus so subscriptions and publications
// agree on the key.
const (
	TableProfiles             = "profiles"
	TablePosts                = "posts"
	TablePostMedia            = "post_media"
	TableLikes                = "likes"
	TableComments             = "comments"
	TableSavedPosts           = "saved_posts"
	TableStories              = "stories"
	TableStoryLikes           = "story_likes"
	TableConversations        = "conversations"
	TableParticipants         = "conversation_participants"
	TableMessages             = "messages"
	TableNotifications        = "notifications"
	TableFollows              = "follows"
	TableConfessions          = "confessions"
	TableVerificationRequests = "verification_requests"
	TableAuditLogs            = "audit_logs"
)
