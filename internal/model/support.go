package model

// ChatCredentials lets the frontend widget connect a user to their support channel.
type ChatCredentials struct {
	Token     string `json:"token"`
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	APIKey    string `json:"apiKey"`
}
