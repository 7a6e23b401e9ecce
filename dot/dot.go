// Package dot provides a parser for the dot language https://graphviz.org/doc/info/lang.html.
package dot

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/teleivo/bgraph/internal/ast"
	"github.com/teleivo/bgraph/internal/lexer"
	"github.com/teleivo/bgraph/internal/token"
)

// Parser is a recursive-descent parser for the dot language. It reports the
// first error it encounters and stops.
type Parser struct {
	next      func() (token.Token, error, bool)
	stop      func()
	curToken  token.Token
	peekToken token.Token
}

func New(r io.Reader) (*Parser, error) {
	lx := lexer.New(r)
	next, stop := iter.Pull2(lx.All())

	p := &Parser{next: next, stop: stop}

	// initialize peek token
	err := p.nextToken()
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Parser) nextToken() error {
	p.curToken = p.peekToken

	tok, err, ok := p.next()
	if err != nil {
		return err
	}
	if !ok {
		p.stop()
		tok = token.Token{Type: token.EOF}
	}
	p.peekToken = tok

	return nil
}

// Parse reads and parses a complete dot graph from the Parser's reader.
func (p *Parser) Parse() (ast.Graph, error) {
	if p.peekTokenIs(token.EOF) {
		var graph ast.Graph
		return graph, nil
	}

	graph, err := p.parseHeader()
	if err != nil {
		return graph, err
	}

	err = p.expectPeekTokenIsOneOf(token.LeftBrace)
	if err != nil {
		return graph, err
	}
	err = p.nextToken()
	if err != nil {
		return graph, err
	}

	stmts, err := p.parseStatementList(graph)
	if err != nil {
		return graph, err
	}
	graph.Stmts = stmts

	return graph, nil
}

func (p *Parser) parseStatementList(graph ast.Graph) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	var err error
	for ; !p.curTokenIsOneOf(token.EOF, token.RightBrace) && err == nil; err = p.nextToken() {
		var stmt ast.Stmt
		stmt, err = p.parseStatement(graph)
		if err != nil {
			return stmts, err
		}

		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts, err
}

func (p *Parser) parseHeader() (ast.Graph, error) {
	var graph ast.Graph

	err := p.expectPeekTokenIsOneOf(token.Strict, token.Graph, token.Digraph)
	if err != nil {
		return graph, err
	}

	if p.curTokenIs(token.Strict) {
		graph.Strict = true

		err := p.expectPeekTokenIsOneOf(token.Graph, token.Digraph)
		if err != nil {
			return graph, err
		}
	}

	if p.curTokenIs(token.Digraph) {
		graph.Directed = true
	}

	// graph ID is optional
	hasID, err := p.advanceIfPeekTokenIsOneOf(token.Identifier)
	if err != nil {
		return graph, err
	}

	if hasID {
		id := ast.ID{Literal: p.curToken.Literal}
		graph.ID = &id
	}

	return graph, nil
}

func (p *Parser) parseStatement(graph ast.Graph) (ast.Stmt, error) {
	if p.curTokenIs(token.Identifier) && p.peekTokenIs(token.Equal) {
		attr, err := p.parseAttribute()
		return attr, err
	} else if p.curTokenIsOneOf(token.Identifier, token.Subgraph, token.LeftBrace) {
		var stmt ast.Stmt
		var left ast.EdgeOperand

		if p.curTokenIs(token.Identifier) {
			nid, err := p.parseNodeID()
			if err != nil {
				return stmt, err
			}

			// attr_list is optional in a node_stmt
			hasLeftBracket, err := p.advanceIfPeekTokenIsOneOf(token.LeftBracket)
			if err != nil {
				return stmt, err
			}
			if hasLeftBracket {
				attrs, err := p.parseAttrList()
				if err != nil {
					return stmt, err
				}
				return &ast.NodeStmt{NodeID: nid, AttrList: attrs}, nil
			}

			left = nid
			stmt = &ast.NodeStmt{NodeID: nid}
		} else {
			subgraph, err := p.parseSubgraph(graph)
			if err != nil {
				return stmt, err
			}

			left = subgraph
			stmt = subgraph
		}

		hasEdgeOperator, err := p.advanceIfPeekTokenIsOneOf(token.UndirectedEgde, token.DirectedEgde)
		if err != nil {
			return stmt, err
		}
		if !hasEdgeOperator {
			return stmt, nil
		}

		es := &ast.EdgeStmt{Left: left}
		erhs, err := p.parseEdgeRHS(graph)
		if err != nil {
			return stmt, err
		}
		es.Right = erhs

		// attr_list is optional in edge_stmt
		hasLeftBracket, err := p.advanceIfPeekTokenIsOneOf(token.LeftBracket)
		if err != nil {
			return es, err
		}
		if !hasLeftBracket {
			return es, nil
		}

		attrs, err := p.parseAttrList()
		if err != nil {
			return es, err
		}
		es.AttrList = attrs

		return es, nil
	} else if p.curTokenIsOneOf(token.Graph, token.Node, token.Edge) {
		return p.parseAttrStatement()
	} else if p.curTokenIs(token.Equal) {
		return nil, errors.New(`expected an "identifier" before the '='`)
	}

	return nil, nil
}

func (p *Parser) parseEdgeOperand(graph ast.Graph) (ast.EdgeOperand, error) {
	if p.curTokenIs(token.Identifier) {
		nid, err := p.parseNodeID()
		return nid, err
	}
	subgraph, err := p.parseSubgraph(graph)
	if err != nil {
		return subgraph, err
	}
	return subgraph, nil
}

func (p *Parser) parseEdgeRHS(graph ast.Graph) (ast.EdgeRHS, error) {
	var first, cur *ast.EdgeRHS
	for p.curTokenIsOneOf(token.UndirectedEgde, token.DirectedEgde) {
		directed := p.curTokenIs(token.DirectedEgde)
		if directed && !graph.Directed {
			return ast.EdgeRHS{}, errors.New("undirected graph cannot contain directed edges")
		}
		if !directed && graph.Directed {
			return ast.EdgeRHS{}, errors.New("directed graph cannot contain undirected edges")
		}

		err := p.expectPeekTokenIsOneOf(token.Identifier, token.Subgraph, token.LeftBrace)
		if err != nil {
			return ast.EdgeRHS{}, err
		}

		right, err := p.parseEdgeOperand(graph)
		if err != nil {
			return ast.EdgeRHS{}, err
		}
		if first == nil {
			first = &ast.EdgeRHS{Directed: directed, Right: right}
			cur = first
		} else {
			cur.Next = &ast.EdgeRHS{Directed: directed, Right: right}
			cur = cur.Next
		}

		hasEdgeOperator, err := p.advanceIfPeekTokenIsOneOf(token.UndirectedEgde, token.DirectedEgde)
		if err != nil {
			return *first, err
		}
		if !hasEdgeOperator {
			return *first, nil
		}
	}

	return *first, nil
}

func (p *Parser) parseNodeID() (ast.NodeID, error) {
	nid := ast.NodeID{ID: ast.ID{Literal: p.curToken.Literal}}

	hasPort, err := p.advanceIfPeekTokenIsOneOf(token.Colon)
	if err != nil || !hasPort {
		return nid, err
	}
	// node::compassPoint names a compass point with no port name
	hasBareCompassPoint, err := p.advanceIfPeekTokenIsOneOf(token.Colon)
	if err != nil {
		return nid, err
	}
	err = p.expectPeekTokenIsOneOf(token.Identifier)
	if err != nil {
		return nid, err
	}
	if hasBareCompassPoint {
		cpt, ok := ast.IsCompassPoint(p.curToken.Literal)
		if !ok {
			return nid, fmt.Errorf("expected a compass point after '::' but got %q instead", p.curToken.Literal)
		}
		nid.Port = &ast.Port{CompassPoint: &ast.CompassPoint{Type: cpt}}
		return nid, nil
	}

	port, err := p.parsePort()
	if err != nil {
		return nid, err
	}
	nid.Port = port

	return nid, nil
}

// parsePort parses a port whose first identifier the caller has already
// advanced onto curToken: either a compass point, a name, or a name followed
// by a compass point.
func (p *Parser) parsePort() (*ast.Port, error) {
	var port ast.Port

	if cpt, ok := ast.IsCompassPoint(p.curToken.Literal); ok {
		port.CompassPoint = &ast.CompassPoint{Type: cpt}
		return &port, nil
	}

	name := ast.ID{Literal: p.curToken.Literal}
	port.Name = &name

	hasCompassPoint, err := p.advanceIfPeekTokenIsOneOf(token.Colon)
	if err != nil || !hasCompassPoint {
		return &port, err
	}
	err = p.expectPeekTokenIsOneOf(token.Identifier)
	if err != nil {
		return &port, err
	}
	if cpt, ok := ast.IsCompassPoint(p.curToken.Literal); ok {
		port.CompassPoint = &ast.CompassPoint{Type: cpt}
	}

	return &port, nil
}

func (p *Parser) parseAttrStatement() (*ast.AttrStmt, error) {
	as := &ast.AttrStmt{ID: ast.ID{Literal: p.curToken.Literal}}

	err := p.expectPeekTokenIsOneOf(token.LeftBracket)
	if err != nil {
		return as, err
	}

	attrs, err := p.parseAttrList()
	if err != nil {
		return as, err
	}
	as.AttrList = attrs

	return as, nil
}

func (p *Parser) parseAttrList() (*ast.AttrList, error) {
	var first, cur *ast.AttrList
	for p.curTokenIs(token.LeftBracket) {
		err := p.expectPeekTokenIsOneOf(token.RightBracket, token.Identifier)
		if err != nil {
			return first, err
		}

		// a_list is optional
		if p.curTokenIs(token.Identifier) {
			alist, err := p.parseAList()
			if err != nil {
				return first, err
			}
			if first == nil {
				first = &ast.AttrList{AList: alist}
				cur = first
			} else {
				cur.Next = &ast.AttrList{AList: alist}
				cur = cur.Next
			}

			err = p.expectPeekTokenIsOneOf(token.RightBracket)
			if err != nil {
				return first, err
			}
		}

		_, err = p.advanceIfPeekTokenIsOneOf(token.LeftBracket)
		if err != nil {
			return first, err
		}
	}

	return first, nil
}

func (p *Parser) parseAList() (*ast.AList, error) {
	var first, cur *ast.AList
	for p.curTokenIs(token.Identifier) {
		attr, err := p.parseAttribute()
		if err != nil {
			return first, err
		}
		if first == nil {
			first = &ast.AList{Attribute: attr}
			cur = first
		} else {
			cur.Next = &ast.AList{Attribute: attr}
			cur = cur.Next
		}

		_, err = p.advanceIfPeekTokenIsOneOf(token.Comma, token.Semicolon)
		if err != nil {
			return first, err
		}

		hasID, err := p.advanceIfPeekTokenIsOneOf(token.Identifier)
		if err != nil {
			return first, err
		}
		if !hasID {
			return first, nil
		}
	}

	return first, nil
}

func (p *Parser) parseAttribute() (ast.Attribute, error) {
	attr := ast.Attribute{
		Name: ast.ID{Literal: p.curToken.Literal},
	}

	err := p.expectPeekTokenIsOneOf(token.Equal)
	if err != nil {
		return attr, err
	}

	err = p.expectPeekTokenIsOneOf(token.Identifier)
	if err != nil {
		return attr, err
	}
	attr.Value = ast.ID{Literal: p.curToken.Literal}

	return attr, nil
}

func (p *Parser) parseSubgraph(graph ast.Graph) (ast.Subgraph, error) {
	var subgraph ast.Subgraph
	if p.curTokenIs(token.Subgraph) {
		// subgraph ID is optional
		hasID, err := p.advanceIfPeekTokenIsOneOf(token.Identifier)
		if err != nil {
			return subgraph, err
		}
		if hasID {
			id := ast.ID{Literal: p.curToken.Literal}
			subgraph.ID = &id
		}

		err = p.expectPeekTokenIsOneOf(token.LeftBrace)
		if err != nil {
			return subgraph, err
		}
	}
	err := p.nextToken()
	if err != nil {
		return subgraph, err
	}

	stmts, err := p.parseStatementList(graph)
	if err != nil {
		return subgraph, err
	}
	subgraph.Stmts = stmts

	return subgraph, nil
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) curTokenIsOneOf(tokens ...token.TokenType) bool {
	return slices.ContainsFunc(tokens, p.curTokenIs)
}

func (p *Parser) peekTokenIsOneOf(tokens ...token.TokenType) bool {
	return slices.ContainsFunc(tokens, p.peekTokenIs)
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeekTokenIsOneOf(want ...token.TokenType) error {
	if !p.peekTokenIsOneOf(want...) {
		if len(want) == 1 {
			return fmt.Errorf("expected next token to be %q but got %q instead", want[0], p.peekToken)
		}
		return fmt.Errorf("expected next token to be one of %q but got %q instead", want, p.peekToken)
	}

	return p.nextToken()
}

func (p *Parser) advanceIfPeekTokenIsOneOf(tokens ...token.TokenType) (bool, error) {
	if !p.peekTokenIsOneOf(tokens...) {
		return false, nil
	}

	err := p.nextToken()
	if err != nil {
		return true, err
	}

	return true, nil
}
