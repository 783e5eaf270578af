/*
Package trust implements the tiered identity-verification engine.

A user submits role-specific evidence; the derivation maps it onto a trust
level (L0-L3); the submission is stored pending with sensitive fields
encrypted; an admin approves or rejects it; approval writes the user's
per-role trust cache, which the access gate consults on level-restricted
requests.

Usage:

	svc := trust.NewService(verificationRepo, userRepo, codec, trust.Config{})

	// Submit evidence for a role
	rec, err := svc.Submit(ctx, trust.SubmitInput{
	    UserID:        userID,
	    Role:          models.RoleMentor,
	    EmailVerified: true,
	    Evidence:      bundle,
	})

	// Review
	rec, err = svc.Approve(ctx, rec.ID, reviewerID, "looks good")
	rec, err = svc.Reject(ctx, rec.ID, reviewerID, "document blurry", "")

	// Gate resolution
	level, ok, err := svc.EffectiveLevel(ctx, userID, models.RoleMentor)

Levels:

	L0  email verified
	L1  government ID evidence on file
	L2  role-specific professional/business evidence
	L3  address proof + video verification

Tiers are independent predicates evaluated in order; the last satisfied one
wins. Config.Derive.CumulativeTiers switches to requiring every lower tier
as well.
*/
package trust
