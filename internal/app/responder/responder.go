// Package responder maps a user utterance to a canned study-topic
// reply. Matching is a case-insensitive substring test against a fixed
// keyword table; the first matching keyword in table order wins.
package responder

import (
	"fmt"
	"strings"
)

type entry struct {
	keyword string
	reply   string
}

// Static is the keyword table responder. It has no state and never
// fails; unmatched input gets a fallback that echoes the question.
type Static struct {
	entries []entry
}

func New() *Static {
	return &Static{entries: defaultEntries}
}

// Reply implements the lookup. Table order is significant: an input
// containing several keywords gets the reply of the first one listed.
func (s *Static) Reply(input string) string {
	lower := strings.ToLower(input)
	for _, e := range s.entries {
		if strings.Contains(lower, e.keyword) {
			return e.reply
		}
	}
	return fmt.Sprintf(fallbackFormat, input)
}

var defaultEntries = []entry{
	{keyword: "dbms", reply: `**DBMS Normalization** is a database design technique that reduces data redundancy and eliminates undesirable characteristics like Insertion, Update, and Deletion Anomalies.

**Key Normal Forms:**
• **1NF (First Normal Form):** Eliminates repeating groups
• **2NF (Second Normal Form):** Eliminates partial dependencies
• **3NF (Third Normal Form):** Eliminates transitive dependencies
• **BCNF (Boyce-Codd Normal Form):** A stricter version of 3NF

**Benefits:**
• Reduces storage space
• Maintains data integrity
• Makes database maintenance easier
• Prevents data anomalies`},

	{keyword: "oop", reply: `**Object-Oriented Programming (OOP)** is a programming paradigm based on the concept of "objects" which contain data and code.

**Core OOP Concepts:**
• **Encapsulation:** Bundling data and methods together
• **Inheritance:** Creating new classes based on existing ones
• **Polymorphism:** Objects taking multiple forms
• **Abstraction:** Hiding complex implementation details

**Benefits:**
• Code reusability
• Modularity and organization
• Easier maintenance
• Real-world modeling`},

	{keyword: "data structures", reply: `**Data Structures** are ways of organizing and storing data in a computer so that it can be accessed and modified efficiently.

**Common Data Structures:**
• **Arrays:** Fixed-size sequential collection
• **Linked Lists:** Dynamic linear data structure
• **Stacks:** Last In, First Out (LIFO) structure
• **Queues:** First In, First Out (FIFO) structure
• **Trees:** Hierarchical data structure
• **Graphs:** Network of connected nodes

**Applications:**
• Algorithm implementation
• Database systems
• Operating systems
• Web development`},

	{keyword: "networking", reply: `**Computer Networking** is the practice of connecting computers and other devices to share resources and communicate.

**Key Concepts:**
• **Protocols:** Rules for communication (TCP/IP, HTTP, FTP)
• **OSI Model:** 7-layer networking framework
• **IP Addressing:** Unique identifiers for devices
• **Routing:** Path determination for data packets

**Network Types:**
• **LAN:** Local Area Network
• **WAN:** Wide Area Network
• **MAN:** Metropolitan Area Network
• **Internet:** Global network of networks

**Applications:**
• File sharing
• Email communication
• Web browsing
• Remote access`},
}

const fallbackFormat = `Thank you for your question about %q.

I'm here to help with BCA subjects including:
• Database Management Systems (DBMS)
• Object-Oriented Programming (OOP)
• Data Structures and Algorithms
• Computer Networks
• Software Engineering
• Web Development
• Java Programming
• And many more!

Could you please be more specific about what you'd like to learn?`
