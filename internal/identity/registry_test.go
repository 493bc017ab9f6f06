package identity

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

type RegistrySuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) newRegistry() *Registry {
	return NewRegistry(
		[]domain.Address{"0xAdminAA"},
		[]domain.Address{"0xTeacher01", "0xTeacher02"},
	)
}

func (s *RegistrySuite) TestResolveRolePrecedence() {
	reg := s.newRegistry()

	s.Run("admin outranks everything", func() {
		s.Equal(RoleAdmin, reg.ResolveRole("0xadminaa"))
	})

	s.Run("teacher membership resolves to teacher", func() {
		s.Equal(RoleTeacher, reg.ResolveRole("0xteacher01"))
	})

	s.Run("connected unknown address defaults to student", func() {
		s.Equal(RoleStudent, reg.ResolveRole("0xsomebody"))
	})

	s.Run("absent address has no role", func() {
		s.Equal(RoleNone, reg.ResolveRole(""))
	})

	s.Run("comparison is case-insensitive", func() {
		s.Equal(RoleAdmin, reg.ResolveRole("0xADMINAA"))
		s.Equal(RoleTeacher, reg.ResolveRole("0xTeAcHeR02"))
	})
}

func (s *RegistrySuite) TestResolveRoleIsTotal() {
	reg := s.newRegistry()
	for _, addr := range []domain.Address{"", "0xadminaa", "0xteacher01", "0xanyone", "not-an-address"} {
		role := reg.ResolveRole(addr)
		s.True(role.In(RoleAdmin, RoleTeacher, RoleStudent, RoleNone), "unexpected role %q for %q", role, addr)
	}
}

func (s *RegistrySuite) TestAddTeacher() {
	s.Run("added address resolves to teacher", func() {
		reg := s.newRegistry()
		s.Require().NoError(reg.AddTeacher("0xNewTeacher"))
		s.Equal(RoleTeacher, reg.ResolveRole("0xnewteacher"))
	})

	s.Run("empty address is an input error", func() {
		reg := s.newRegistry()
		err := reg.AddTeacher("")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Equal(2, reg.TeacherCount())
	})

	s.Run("duplicate teacher is a conflict", func() {
		reg := s.newRegistry()
		err := reg.AddTeacher("0xTeacher01")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(2, reg.TeacherCount())
	})

	s.Run("admins cannot be demoted to teacher", func() {
		reg := s.newRegistry()
		err := reg.AddTeacher("0xAdminAA")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(RoleAdmin, reg.ResolveRole("0xadminaa"))
	})
}

func (s *RegistrySuite) TestRoleIn() {
	s.True(RoleTeacher.In(RoleTeacher, RoleAdmin))
	s.False(RoleStudent.In(RoleTeacher, RoleAdmin))
	s.False(RoleNone.In())
}

func (s *RegistrySuite) TestParseRole() {
	role, err := ParseRole("teacher")
	s.Require().NoError(err)
	s.Equal(RoleTeacher, role)

	_, err = ParseRole("principal")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
