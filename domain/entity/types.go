package entity

import (
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/audit"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/bounty"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/commitment"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/credential"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/issue"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/domain/entity/submission"
)

type (
	Audit      = audit.Audit
	Issue      = issue.Issue
	Bounty     = bounty.Bounty
	Submission = submission.Submission
	Commitment = commitment.Commitment
	Credential = credential.Credential
)
