package community

// Member is a peer on the community board. AuraScore is the member's own
// displayed score; it is an independent record that grows when the local user
// shares aura with them.
type Member struct {
	ID        string
	Name      string
	AvatarURL string
	Status    string
	AuraScore int
}
