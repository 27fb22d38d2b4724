package bounty

type BountyStatus string

const (
	StatusOpen     BountyStatus = "open"
	StatusResolved BountyStatus = "resolved"
	StatusClosed   BountyStatus = "closed"
)
