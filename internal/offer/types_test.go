package offer_test

import (
	"testing"

	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/stretchr/testify/assert"
)

func TestProgramFromString(t *testing.T) {
	tests := []struct {
		raw     string
		program offer.Program
		ok      bool
	}{
		{"mr", offer.MembershipRewards, true},
		{"Membership Rewards", offer.MembershipRewards, true},
		{"membership_rewards", offer.MembershipRewards, true},
		{"amex", offer.MembershipRewards, true},
		{"UR", offer.UltimateRewards, true},
		{"ultimate-rewards", offer.UltimateRewards, true},
		{"thankyou", offer.ThankYouPoints, true},
		{"Thank You Points", offer.ThankYouPoints, true},
		{"typ", offer.ThankYouPoints, true},
		{"venture", offer.VentureMiles, true},
		{"capitalone", offer.VentureMiles, true},
		{"points", offer.GenericPoints, true},
		{"zorp", offer.GenericPoints, false},
		{"", offer.GenericPoints, false},
	}
	for _, tt := range tests {
		p, ok := offer.ProgramFromString(tt.raw)
		assert.Equal(t, tt.program, p, "ProgramFromString(%q)", tt.raw)
		assert.Equal(t, tt.ok, ok, "ProgramFromString(%q)", tt.raw)
	}
}

func TestPrograms_GenericLast(t *testing.T) {
	programs := offer.Programs()
	assert.Len(t, programs, 5)
	assert.Equal(t, offer.GenericPoints, programs[len(programs)-1])
}
