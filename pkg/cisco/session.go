package cisco

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// ConnectParams carries everything needed to open one device session.
type ConnectParams struct {
	Host     string
	Port     uint16
	Username string
	Password string
	Driver   *Driver
	// DialTimeout bounds TCP connect + SSH handshake. Zero means the
	// default of 15s.
	DialTimeout time.Duration
}

const (
	defaultDialTimeout = 15 * time.Second
	// loginTimeout bounds the wait for the first prompt after the shell
	// starts (banner + motd can be slow on loaded boxes).
	loginTimeout = 15 * time.Second
)

// Session 是一台设备上的交互式 CLI 会话
// 一个请求一个会话：打开、执行一次操作、关闭
type Session struct {
	client *ssh.Client
	sess   *ssh.Session
	stdin  io.WriteCloser
	driver *Driver

	mu      sync.Mutex
	buf     bytes.Buffer
	readErr error
	notify  chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Open dials the device, starts an interactive shell and leaves it at a
// clean prompt with paging disabled. On any failure everything opened so
// far is closed before returning.
func Open(ctx context.Context, p ConnectParams) (*Session, error) {
	driver := p.Driver
	if driver == nil {
		driver = Resolve("")
	}
	dialTimeout := p.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = defaultDialTimeout
	}

	config := &ssh.ClientConfig{
		User: p.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(p.Password),
			// 部分设备只开 keyboard-interactive，把密码作为应答回传
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = p.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: known_hosts 校验可配置化
		Timeout:         dialTimeout,
	}

	port := p.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", p.Host, port)

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyDialError(addr, err)
	}

	ncc, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, classifyHandshakeError(addr, err)
	}
	client := ssh.NewClient(ncc, chans, reqs)

	s, err := newShell(client, driver)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: open shell on %s: %v", ErrConnection, addr, err)
	}

	// 等登录横幅刷完、出现提示符，然后关掉分页
	if _, err := s.waitPrompt(ctx, loginTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("wait for prompt on %s: %w", addr, err)
	}
	if _, err := s.execute(ctx, driver.DisablePaging, loginTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("disable paging on %s: %w", addr, err)
	}
	return s, nil
}

func newShell(client *ssh.Client, driver *Driver) (*Session, error) {
	sess, err := client.NewSession()
	if err != nil {
		return nil, err
	}

	// ECHO 关不掉没关系，输出清洗会剥掉回显行
	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := sess.RequestPty("vt100", 80, 512, modes); err != nil {
		sess.Close()
		return nil, fmt.Errorf("request pty: %w", err)
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		return nil, err
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		return nil, err
	}
	if err := sess.Shell(); err != nil {
		sess.Close()
		return nil, fmt.Errorf("start shell: %w", err)
	}

	s := &Session{
		client: client,
		sess:   sess,
		stdin:  stdin,
		driver: driver,
		notify: make(chan struct{}, 1),
	}
	go s.readLoop(stdout)
	return s, nil
}

// readLoop drains device output into the buffer and pokes waiters.
func (s *Session) readLoop(r io.Reader) {
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.buf.Write(chunk[:n])
			s.mu.Unlock()
			select {
			case s.notify <- struct{}{}:
			default:
			}
		}
		if err != nil {
			s.mu.Lock()
			s.readErr = err
			s.mu.Unlock()
			select {
			case s.notify <- struct{}{}:
			default:
			}
			return
		}
	}
}

// waitPrompt blocks until the buffered output ends with a prompt, then
// returns and clears the buffer. Times out with ErrTimeout.
func (s *Session) waitPrompt(ctx context.Context, timeout time.Duration) (string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		s.mu.Lock()
		text := s.buf.String()
		readErr := s.readErr
		if endsWithPrompt(text, s.driver.Prompt) {
			s.buf.Reset()
			s.mu.Unlock()
			return text, nil
		}
		s.mu.Unlock()

		if readErr != nil {
			return text, fmt.Errorf("%w: session closed by device: %v", ErrConnection, readErr)
		}

		select {
		case <-s.notify:
		case <-deadline.C:
			return text, fmt.Errorf("%w: no prompt within %s", ErrTimeout, timeout)
		case <-ctx.Done():
			return text, ctx.Err()
		}
	}
}

func endsWithPrompt(text string, prompt *regexp.Regexp) bool {
	trimmed := strings.TrimRight(text, " \t")
	if trimmed == "" {
		return false
	}
	lastLine := trimmed
	if idx := strings.LastIndexByte(strings.TrimRight(trimmed, "\r\n"), '\n'); idx != -1 {
		lastLine = trimmed[idx+1:]
	}
	return prompt.MatchString(strings.TrimRight(lastLine, "\r\n \t"))
}

// execute sends one line and collects cleaned output up to the next prompt.
func (s *Session) execute(ctx context.Context, command string, timeout time.Duration) (string, error) {
	s.mu.Lock()
	s.buf.Reset()
	s.mu.Unlock()

	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		return "", fmt.Errorf("%w: write to device: %v", ErrConnection, err)
	}
	raw, err := s.waitPrompt(ctx, timeout)
	if err != nil {
		return cleanOutput(raw, command, s.driver.Prompt), err
	}
	return cleanOutput(raw, command, s.driver.Prompt), nil
}

// SendCommand runs a single command and returns its textual result.
func (s *Session) SendCommand(ctx context.Context, command string, timeout time.Duration) (string, error) {
	return s.execute(ctx, command, timeout)
}

// SendConfigSet applies an ordered batch of configuration lines as one
// sequence: enter config mode, each line, commit where the platform needs
// it, exit. No rollback on a mid-batch failure; the device's own output up
// to that point is returned alongside the error.
func (s *Session) SendConfigSet(ctx context.Context, lines []string, timeout time.Duration) (string, error) {
	sequence := make([]string, 0, len(lines)+3)
	sequence = append(sequence, s.driver.ConfigEnter)
	sequence = append(sequence, lines...)
	if s.driver.Commit != "" {
		sequence = append(sequence, s.driver.Commit)
	}
	sequence = append(sequence, s.driver.ConfigExit)

	deadline := time.Now().Add(timeout)
	var out []string
	for _, cmd := range sequence {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return strings.Join(out, "\n"), fmt.Errorf("%w: config batch exceeded %s", ErrTimeout, timeout)
		}
		chunk, err := s.execute(ctx, cmd, remaining)
		if chunk != "" {
			out = append(out, chunk)
		}
		if err != nil {
			return strings.Join(out, "\n"), err
		}
	}
	return strings.Join(out, "\n"), nil
}

// Close tears down the shell and the underlying connection. Safe to call
// more than once; only the first call does the work.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.sess != nil {
			s.sess.Close()
		}
		if s.client != nil {
			s.closeErr = s.client.Close()
		}
	})
	return s.closeErr
}

// cleanOutput strips the echoed command and the trailing prompt line from a
// raw capture, normalizing CRLF along the way.
func cleanOutput(raw, command string, prompt *regexp.Regexp) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	start := 0
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == strings.TrimSpace(command) {
		start = 1
	}
	end := len(lines)
	for end > start && isPromptOrBlank(lines[end-1], prompt) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

func isPromptOrBlank(line string, prompt *regexp.Regexp) bool {
	trimmed := strings.TrimRight(line, "\r \t")
	return trimmed == "" || prompt.MatchString(trimmed)
}
