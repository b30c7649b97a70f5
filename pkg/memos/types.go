package memos

// State values shared by memos and users.
const (
	StateUnspecified = "STATE_UNSPECIFIED"
	StateNormal      = "NORMAL"
	StateArchived    = "ARCHIVED"
)

// Visibility values for memos.
const (
	VisibilityPrivate   = "PRIVATE"
	VisibilityProtected = "PROTECTED"
	VisibilityPublic    = "PUBLIC"
)

// Role values for users.
const (
	RoleHost  = "HOST"
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type Memo struct {
	Name        string         `json:"name"`
	State       string         `json:"state,omitempty"`
	Creator     string         `json:"creator,omitempty"`
	CreateTime  string         `json:"createTime,omitempty"`
	UpdateTime  string         `json:"updateTime,omitempty"`
	DisplayTime string         `json:"displayTime,omitempty"`
	Content     string         `json:"content"`
	Visibility  string         `json:"visibility,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Pinned      bool           `json:"pinned"`
	Attachments []Attachment   `json:"attachments,omitempty"`
	Relations   []MemoRelation `json:"relations,omitempty"`
	Reactions   []Reaction     `json:"reactions,omitempty"`
	Property    *MemoProperty  `json:"property,omitempty"`
	Parent      string         `json:"parent,omitempty"`
	Snippet     string         `json:"snippet,omitempty"`
	Location    *Location      `json:"location,omitempty"`
}

type MemoProperty struct {
	HasLink            bool `json:"hasLink"`
	HasTaskList        bool `json:"hasTaskList"`
	HasCode            bool `json:"hasCode"`
	HasIncompleteTasks bool `json:"hasIncompleteTasks"`
}

type MemoRef struct {
	Name    string `json:"name"`
	Snippet string `json:"snippet,omitempty"`
}

type MemoRelation struct {
	Memo        MemoRef `json:"memo"`
	RelatedMemo MemoRef `json:"relatedMemo"`
	Type        string  `json:"type"`
}

type Reaction struct {
	Name         string `json:"name"`
	Creator      string `json:"creator"`
	ContentID    string `json:"contentId"`
	ReactionType string `json:"reactionType"`
	CreateTime   string `json:"createTime"`
}

type Location struct {
	Placeholder string  `json:"placeholder"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type CreateMemoRequest struct {
	Content     string   `json:"content"`
	State       string   `json:"state,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Pinned      bool     `json:"pinned"`
	Attachments []string `json:"attachments,omitempty"`
}

// MemoPatch carries only the fields named in the accompanying UpdateMask;
// nil fields are not sent.
type MemoPatch struct {
	Content     *string `json:"content,omitempty"`
	State       *string `json:"state,omitempty"`
	Visibility  *string `json:"visibility,omitempty"`
	Pinned      *bool   `json:"pinned,omitempty"`
	DisplayTime *string `json:"displayTime,omitempty"`
}

type ListMemosResponse struct {
	Memos         []Memo `json:"memos"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

type Attachment struct {
	Name         string `json:"name"`
	CreateTime   string `json:"createTime,omitempty"`
	Filename     string `json:"filename"`
	Content      string `json:"content,omitempty"`
	ExternalLink string `json:"externalLink,omitempty"`
	Type         string `json:"type"`
	Size         string `json:"size,omitempty"`
	Memo         string `json:"memo,omitempty"`
}

type CreateAttachmentRequest struct {
	Filename     string `json:"filename"`
	Type         string `json:"type"`
	Content      string `json:"content,omitempty"`
	ExternalLink string `json:"externalLink,omitempty"`
	Memo         string `json:"memo,omitempty"`
}

type ListAttachmentsResponse struct {
	Attachments   []Attachment `json:"attachments"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
}

type Shortcut struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Filter string `json:"filter"`
}

type CreateShortcutRequest struct {
	Title  string `json:"title"`
	Filter string `json:"filter"`
}

type ShortcutPatch struct {
	Title  *string `json:"title,omitempty"`
	Filter *string `json:"filter,omitempty"`
}

type ListShortcutsResponse struct {
	Shortcuts []Shortcut `json:"shortcuts"`
}

type User struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
	UpdateTime  string `json:"updateTime,omitempty"`
}

type CreateUserRequest struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Password    string `json:"password"`
}

type UserPatch struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Role        *string `json:"role,omitempty"`
	Password    *string `json:"password,omitempty"`
}

type ListUsersResponse struct {
	Users         []User `json:"users"`
	NextPageToken string `json:"nextPageToken,omitempty"`
	TotalSize     int    `json:"totalSize,omitempty"`
}

type PersonalAccessToken struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	LastUsedAt  string `json:"lastUsedAt,omitempty"`
}

type CreatePersonalAccessTokenRequest struct {
	Description string `json:"description,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
}

// CreatePersonalAccessTokenResponse is the only place the secret token is
// ever returned.
type CreatePersonalAccessTokenResponse struct {
	PersonalAccessToken PersonalAccessToken `json:"personalAccessToken"`
	Token               string              `json:"token"`
}

type ListPersonalAccessTokensResponse struct {
	PersonalAccessTokens []PersonalAccessToken `json:"personalAccessTokens"`
	NextPageToken        string                `json:"nextPageToken,omitempty"`
	TotalSize            int                   `json:"totalSize,omitempty"`
}

type Webhook struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	DisplayName string `json:"displayName,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
	UpdateTime  string `json:"updateTime,omitempty"`
}

type CreateWebhookRequest struct {
	URL         string `json:"url"`
	DisplayName string `json:"displayName,omitempty"`
}

type WebhookPatch struct {
	URL         *string `json:"url,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
}

type ListWebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

type InstanceProfile struct {
	Owner       string `json:"owner"`
	Version     string `json:"version"`
	Mode        string `json:"mode"`
	InstanceURL string `json:"instanceUrl"`
}

type Activity struct {
	Name       string           `json:"name"`
	Creator    string           `json:"creator"`
	Type       string           `json:"type"`
	Level      string           `json:"level"`
	CreateTime string           `json:"createTime"`
	Payload    *ActivityPayload `json:"payload,omitempty"`
}

type ActivityPayload struct {
	MemoComment *struct {
		Memo        string `json:"memo"`
		RelatedMemo string `json:"relatedMemo"`
	} `json:"memoComment,omitempty"`
}

type ListActivitiesResponse struct {
	Activities    []Activity `json:"activities"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// Document is a payload whose schema is deliberately not modelled (settings,
// notifications). It is passed through as decoded JSON.
type Document = any
