package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/model"
	"github.com/lk2023060901/giftdraw/app/giftdraw/internal/service"
)

var (
	// errUsage 参数错误，退出码 2
	errUsage = errors.New("invalid arguments")
	// errAlreadyInitialized 用户表非空时拒绝 init
	errAlreadyInitialized = errors.New("giftdraw: users already exist, init refused")
)

// command 一条子命令
type command struct {
	path          []string
	name          string
	usage         string
	help          string
	minArgs       int
	maxArgs       int
	needsOperator bool
	run           func(ctx context.Context, s *session, args []string) error
}

var commands = []*command{
	{path: []string{"user", "add"}, usage: "user add <name> <role>", help: "create a user (admin)", minArgs: 2, maxArgs: 2, needsOperator: true, run: runUserAdd},
	{path: []string{"user", "toggle"}, usage: "user toggle <name>", help: "flip a user's active flag (admin)", minArgs: 1, maxArgs: 1, needsOperator: true, run: runUserToggle},
	{path: []string{"user", "role"}, usage: "user role <name> <role>", help: "change a user's role (admin)", minArgs: 2, maxArgs: 2, needsOperator: true, run: runUserRole},
	{path: []string{"user", "list"}, usage: "user list", help: "list all users (admin)", needsOperator: true, run: runUserList},
	{path: []string{"gift", "add"}, usage: "gift add <first> <second> <name> [count]", help: "add a gift or increase its count (admin)", minArgs: 3, maxArgs: 4, needsOperator: true, run: runGiftAdd},
	{path: []string{"gift", "set"}, usage: "gift set <first> <second> <name> <count>", help: "overwrite a gift count (admin)", minArgs: 4, maxArgs: 4, needsOperator: true, run: runGiftSet},
	{path: []string{"gift", "delete"}, usage: "gift delete <first> <second> <name>", help: "delete a gift (admin)", minArgs: 3, maxArgs: 3, needsOperator: true, run: runGiftDelete},
	{path: []string{"gift", "list"}, usage: "gift list", help: "show the full inventory (admin)", needsOperator: true, run: runGiftList},
	{path: []string{"draw"}, usage: "draw", help: "draw a gift (normal)", needsOperator: true, run: runDraw},
	{path: []string{"gifts"}, usage: "gifts", help: "list all gift names (normal)", needsOperator: true, run: runGifts},
	{path: []string{"me"}, usage: "me", help: "show your own record (normal)", needsOperator: true, run: runMe},
	{path: []string{"init"}, usage: "init <admin>", help: "create the first admin when no user exists", minArgs: 1, maxArgs: 1, run: runInit},
}

func init() {
	for _, c := range commands {
		c.name = strings.Join(c.path, " ")
	}
}

// lookupCommand 按最长路径匹配子命令并检查参数个数
func lookupCommand(args []string) (*command, []string, error) {
	if len(args) == 0 {
		return nil, nil, errors.Wrap(errUsage, "missing command")
	}

	var found *command
	for _, c := range commands {
		if len(args) < len(c.path) {
			continue
		}
		match := true
		for i, p := range c.path {
			if args[i] != p {
				match = false
				break
			}
		}
		if match && (found == nil || len(c.path) > len(found.path)) {
			found = c
		}
	}
	if found == nil {
		return nil, nil, errors.Wrapf(errUsage, "unknown command %q", strings.Join(args, " "))
	}

	rest := args[len(found.path):]
	if len(rest) < found.minArgs || len(rest) > found.maxArgs {
		return nil, nil, errors.Wrapf(errUsage, "usage: %s", found.usage)
	}
	return found, rest, nil
}

// session 单次运行的上下文
type session struct {
	rt       *Runtime
	operator service.Operator
	out      io.Writer
}

func newSession(rt *Runtime, operator string, out io.Writer) *session {
	return &session{rt: rt, operator: service.Operator(operator), out: out}
}

func (s *session) admin(ctx context.Context) (*service.AdminService, error) {
	return service.NewAdminService(ctx, s.operator, s.rt.Users, s.rt.Gifts, s.rt.Logger)
}

func (s *session) user(ctx context.Context) (*service.UserService, error) {
	return service.NewUserService(ctx, s.operator, s.rt.Users, s.rt.Gifts, s.rt.Roller, s.rt.Metrics, s.rt.Logger)
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Wrapf(errUsage, "count %q is not an integer", arg)
	}
	return n, nil
}

func runUserAdd(ctx context.Context, s *session, args []string) error {
	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	u, err := admin.AddUser(ctx, args[0], model.Role(args[1]))
	if err != nil {
		return err
	}
	s.printf("user %s created with role %s\n", u.Username, u.Role)
	return nil
}

func runUserToggle(ctx context.Context, s *session, args []string) error {
	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	ok, err := admin.ToggleActive(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		s.printf("user %s not found\n", args[0])
		return nil
	}
	s.printf("user %s active toggled\n", args[0])
	return nil
}

func runUserRole(ctx context.Context, s *session, args []string) error {
	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	ok, err := admin.ChangeRole(ctx, args[0], model.Role(args[1]))
	if err != nil {
		return err
	}
	if !ok {
		s.printf("user %s not found\n", args[0])
		return nil
	}
	s.printf("user %s role changed to %s\n", args[0], args[1])
	return nil
}

func runUserList(ctx context.Context, s *session, _ []string) error {
	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	users, err := admin.ListUsers(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		u := users[name]
		s.printf("%s\trole=%s\tactive=%t\tcreated=%s\tupdated=%s\tgifts=[%s]\n",
			u.Username, u.Role, u.Active, u.CreateTime, u.UpdateTime, strings.Join(u.Gift, ","))
	}
	return nil
}

func runGiftAdd(ctx context.Context, s *session, args []string) error {
	count := 1
	if len(args) == 4 {
		n, err := parseCount(args[3])
		if err != nil {
			return err
		}
		count = n
	}

	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	g, err := admin.AddGift(ctx, model.Tier(args[0]), model.Tier(args[1]), args[2], count)
	if err != nil {
		return err
	}
	s.printf("gift %s in %s/%s now has %d\n", g.Name, args[0], args[1], g.Count)
	return nil
}

func runGiftSet(ctx context.Context, s *session, args []string) error {
	count, err := parseCount(args[3])
	if err != nil {
		return err
	}

	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	ok, err := admin.SetGiftCount(ctx, model.Tier(args[0]), model.Tier(args[1]), args[2], count)
	if err != nil {
		return err
	}
	if !ok {
		s.printf("gift %s not found in %s/%s\n", args[2], args[0], args[1])
		return nil
	}
	s.printf("gift %s in %s/%s set to %d\n", args[2], args[0], args[1], count)
	return nil
}

func runGiftDelete(ctx context.Context, s *session, args []string) error {
	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	g, ok, err := admin.DeleteGift(ctx, model.Tier(args[0]), model.Tier(args[1]), args[2])
	if err != nil {
		return err
	}
	if !ok {
		s.printf("gift %s not found in %s/%s\n", args[2], args[0], args[1])
		return nil
	}
	s.printf("gift %s deleted from %s/%s (count was %d)\n", g.Name, args[0], args[1], g.Count)
	return nil
}

func runGiftList(ctx context.Context, s *session, _ []string) error {
	admin, err := s.admin(ctx)
	if err != nil {
		return err
	}
	inv, err := admin.Inventory(ctx)
	if err != nil {
		return err
	}
	for _, first := range model.FirstTiers {
		for _, second := range model.SecondTiers {
			bucket := inv.Bucket(first, second)
			for _, name := range bucket.Names() {
				s.printf("%s/%s\t%s\t%d\n", first, second, bucket[name].Name, bucket[name].Count)
			}
		}
	}
	return nil
}

func runDraw(ctx context.Context, s *session, _ []string) error {
	svc, err := s.user(ctx)
	if err != nil {
		return err
	}
	res, err := svc.Draw(ctx)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case service.OutcomeWon:
		s.printf("congratulations, you won %s (%s/%s)\n", res.Gift.Name, res.First, res.Second)
	case service.OutcomeUnavailable:
		s.printf("%s (%s/%s) is out of stock\n", res.Gift.Name, res.First, res.Second)
	default:
		s.printf("no prize this time (%s/%s)\n", res.First, res.Second)
	}
	return nil
}

func runGifts(ctx context.Context, s *session, _ []string) error {
	svc, err := s.user(ctx)
	if err != nil {
		return err
	}
	names, err := svc.ListGiftNames(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		s.printf("%s\n", name)
	}
	return nil
}

func runMe(ctx context.Context, s *session, _ []string) error {
	svc, err := s.user(ctx)
	if err != nil {
		return err
	}
	u, err := svc.Profile(ctx)
	if err != nil {
		return err
	}
	s.printf("username: %s\nrole: %s\nactive: %t\ncreated: %s\nupdated: %s\ngifts: [%s]\n",
		u.Username, u.Role, u.Active, u.CreateTime, u.UpdateTime, strings.Join(u.Gift, ", "))
	return nil
}

// runInit 用户表为空时创建第一个管理员
func runInit(ctx context.Context, s *session, args []string) error {
	users, err := s.rt.Users.List(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return errAlreadyInitialized
	}
	u, err := s.rt.Users.Create(ctx, args[0], model.RoleAdmin)
	if err != nil {
		return err
	}
	s.printf("admin %s created\n", u.Username)
	return nil
}
